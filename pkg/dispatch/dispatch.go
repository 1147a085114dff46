// Package dispatch schedules callbacks onto the UI thread.
//
// Background work (network fetches, disk writes, player notifications) never
// touches widget state directly. It hands a closure to a [Dispatcher], and the
// closure runs on the thread that owns the widgets.
package dispatch

import (
	"context"
	"sync"
)

// Dispatcher schedules callbacks to run on the UI thread.
type Dispatcher interface {
	// Dispatch schedules fn. It returns false if fn is nil or the
	// dispatcher no longer accepts work.
	Dispatch(fn func()) bool
}

// Func adapts a plain function (such as a host toolkit's main-thread hook) to Dispatcher.
type Func func(fn func())

// Dispatch calls f(fn).
func (f Func) Dispatch(fn func()) bool {
	if f == nil || fn == nil {
		return false
	}
	f(fn)
	return true
}

// Sync runs callbacks inline on the calling goroutine. Tests use it, as do
// hosts whose callers are already on the UI thread.
type Sync struct{}

// Dispatch runs fn immediately.
func (Sync) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Loop is a channel-backed UI queue. One goroutine (the UI thread) calls
// Run or Drain; any goroutine may call Dispatch.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

// NewLoop returns an empty queue.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Dispatch enqueues fn.
func (l *Loop) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Drain runs every queued callback, including ones queued while draining,
// and returns how many ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
			n++
		}
	}
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Run drains the queue whenever work arrives until ctx is done, then
// closes the loop. Callbacks still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops accepting work.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.queue = nil
	l.mu.Unlock()
}
