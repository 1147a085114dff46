package testing

import (
	"sync"
	"time"

	"github.com/go-drift/mediaview/pkg/playback"
)

// FakePlayer is a scriptable [playback.Player]. Tests drive it with Emit,
// Tick and the setters, then inspect the recorded calls.
type FakePlayer struct {
	mu sync.Mutex

	LoadErr  error
	PlayErr  error
	PauseErr error

	loaded   string
	rate     float64
	err      error
	status   playback.ItemStatus
	duration time.Duration
	position time.Duration
	likely   bool
	volume   float64
	closed   bool
	seeks    []time.Duration
	calls    []string

	nextID    int
	observers map[int]func(playback.Event)
	periodic  map[int]func(time.Duration)
}

// NewFakePlayer returns a player with no item loaded.
func NewFakePlayer() *FakePlayer {
	return &FakePlayer{
		volume:    1,
		observers: make(map[int]func(playback.Event)),
		periodic:  make(map[int]func(time.Duration)),
	}
}

// Factory returns a playback.Factory that always yields p.
func (p *FakePlayer) Factory() playback.Factory {
	return func() (playback.Player, error) { return p, nil }
}

func (p *FakePlayer) record(call string) {
	p.calls = append(p.calls, call)
}

func (p *FakePlayer) Load(location string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("load")
	if p.LoadErr != nil {
		return p.LoadErr
	}
	p.loaded = location
	return nil
}

func (p *FakePlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("play")
	if p.PlayErr != nil {
		return p.PlayErr
	}
	p.rate = 1
	return nil
}

func (p *FakePlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("pause")
	if p.PauseErr != nil {
		return p.PauseErr
	}
	p.rate = 0
	return nil
}

func (p *FakePlayer) Seek(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("seek")
	p.seeks = append(p.seeks, pos)
	p.position = pos
	return nil
}

func (p *FakePlayer) SetVolume(v float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
	return nil
}

func (p *FakePlayer) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

func (p *FakePlayer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *FakePlayer) Status() playback.ItemStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *FakePlayer) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func (p *FakePlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *FakePlayer) LikelyToKeepUp() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.likely
}

func (p *FakePlayer) Subscribe(fn func(playback.Event)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.observers, id)
		p.mu.Unlock()
	}
}

func (p *FakePlayer) AddPeriodicObserver(_ time.Duration, fn func(time.Duration)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.periodic[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.periodic, id)
		p.mu.Unlock()
	}
}

func (p *FakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("close")
	p.closed = true
	p.rate = 0
	return nil
}

// Emit delivers ev to every subscriber.
func (p *FakePlayer) Emit(ev playback.Event) {
	p.mu.Lock()
	fns := make([]func(playback.Event), 0, len(p.observers))
	for _, fn := range p.observers {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// BecomeReady sets the duration, marks the item ready and notifies subscribers.
func (p *FakePlayer) BecomeReady(dur time.Duration) {
	p.mu.Lock()
	p.status = playback.ItemReadyToPlay
	p.duration = dur
	p.likely = true
	p.mu.Unlock()
	p.Emit(playback.Event{Kind: playback.EventStatusChanged, Status: playback.ItemReadyToPlay})
}

// Fail marks the item failed with err and notifies subscribers.
func (p *FakePlayer) Fail(err error) {
	p.mu.Lock()
	p.status = playback.ItemFailed
	p.err = err
	p.mu.Unlock()
	p.Emit(playback.Event{Kind: playback.EventStatusChanged, Status: playback.ItemFailed, Err: err})
}

// Tick moves the playhead to pos and notifies periodic observers.
func (p *FakePlayer) Tick(pos time.Duration) {
	p.mu.Lock()
	p.position = pos
	fns := make([]func(time.Duration), 0, len(p.periodic))
	for _, fn := range p.periodic {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(pos)
	}
}

// SetLikelyToKeepUp overrides the buffering hint.
func (p *FakePlayer) SetLikelyToKeepUp(v bool) {
	p.mu.Lock()
	p.likely = v
	p.mu.Unlock()
}

// Loaded returns the last location passed to Load.
func (p *FakePlayer) Loaded() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Volume returns the last volume set.
func (p *FakePlayer) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Closed reports whether Close was called.
func (p *FakePlayer) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Seeks returns every position passed to Seek.
func (p *FakePlayer) Seeks() []time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]time.Duration(nil), p.seeks...)
}

// Calls returns the recorded method names in order.
func (p *FakePlayer) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// Observers returns how many subscribers and periodic observers are attached.
func (p *FakePlayer) Observers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.observers) + len(p.periodic)
}

// FakeAudioSession records applied audio categories.
type FakeAudioSession struct {
	mu      sync.Mutex
	Err     error
	applied []playback.AudioType
}

// SetCategory records t.
func (s *FakeAudioSession) SetCategory(t playback.AudioType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.applied = append(s.applied, t)
	return nil
}

// Applied returns every category applied so far.
func (s *FakeAudioSession) Applied() []playback.AudioType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]playback.AudioType(nil), s.applied...)
}
