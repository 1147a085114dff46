// Package animation provides the frame-driven timing primitives behind
// mediaview transitions, the track auto-hide timer and the loading pulse.
//
// # Core Components
//
//   - [FrameLoop]: owns the active tickers and advances them once per frame
//     via [FrameLoop.Step]. The host calls Step from its display link.
//
//   - [Controller]: drives a value toward a target over a duration with an
//     easing curve and reports completion.
//
//   - [Tween]: maps a controller's 0-1 value onto any type, such as a frame Rect.
//
//   - [FrameLoop.After] and [FrameLoop.Every]: one-shot and repeating timers
//     measured on the loop's clock.
//
// Everything here runs on the UI thread. Nothing starts goroutines.
package animation

import (
	"sync"
	"time"
)

// FrameLoop advances registered tickers against a Clock.
type FrameLoop struct {
	clock Clock

	mu      sync.Mutex
	tickers map[*Ticker]struct{}
}

// NewFrameLoop returns a loop reading time from clock. A nil clock uses SystemClock.
func NewFrameLoop(clock Clock) *FrameLoop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &FrameLoop{clock: clock, tickers: make(map[*Ticker]struct{})}
}

// Now returns the loop clock's current time.
func (l *FrameLoop) Now() time.Time { return l.clock.Now() }

// Step advances all active tickers.
// This should be called once per frame.
func (l *FrameLoop) Step() {
	l.mu.Lock()
	if len(l.tickers) == 0 {
		l.mu.Unlock()
		return
	}
	// Copy so callbacks can start or stop tickers.
	tickers := make([]*Ticker, 0, len(l.tickers))
	for t := range l.tickers {
		tickers = append(tickers, t)
	}
	l.mu.Unlock()

	now := l.clock.Now()
	for _, t := range tickers {
		if t.active && t.callback != nil {
			t.callback(now.Sub(t.start))
		}
	}
}

// Active reports whether any ticker is running.
func (l *FrameLoop) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tickers) > 0
}

// NewTicker creates a stopped ticker bound to this loop.
func (l *FrameLoop) NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{loop: l, callback: callback}
}

// After runs fn once, on the first Step at least d after the call.
// The returned function cancels it.
func (l *FrameLoop) After(d time.Duration, fn func()) (cancel func()) {
	var t *Ticker
	t = l.NewTicker(func(elapsed time.Duration) {
		if elapsed < d {
			return
		}
		t.Stop()
		fn()
	})
	t.Start()
	return t.Stop
}

// Every runs fn each time another d has elapsed, until cancelled.
func (l *FrameLoop) Every(d time.Duration, fn func()) (cancel func()) {
	if d <= 0 {
		panic("animation: Every requires a positive interval")
	}
	fired := 0
	var t *Ticker
	t = l.NewTicker(func(elapsed time.Duration) {
		due := int(elapsed / d)
		for fired < due && t.active {
			fired++
			fn()
		}
	})
	t.Start()
	return t.Stop
}

// Ticker calls a callback on each frame while active.
//
// The callback receives the elapsed time since Start was called.
type Ticker struct {
	loop     *FrameLoop
	callback func(elapsed time.Duration)
	active   bool
	start    time.Time
}

// Start activates the ticker.
func (t *Ticker) Start() {
	if t.active {
		return
	}
	t.active = true
	t.start = t.loop.clock.Now()
	t.loop.mu.Lock()
	t.loop.tickers[t] = struct{}{}
	t.loop.mu.Unlock()
}

// Stop deactivates the ticker.
func (t *Ticker) Stop() {
	if !t.active {
		return
	}
	t.active = false
	t.loop.mu.Lock()
	delete(t.loop.tickers, t)
	t.loop.mu.Unlock()
}

// IsActive returns whether the ticker is currently running.
func (t *Ticker) IsActive() bool {
	return t.active
}
