package testing

import (
	"sync"
	"time"

	"github.com/go-drift/mediaview/pkg/animation"
)

// FrameInterval is the frame length Run steps by.
const FrameInterval = 16 * time.Millisecond

// FakeClock is an [animation.Clock] that only moves when told to.
// It is safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a clock stopped at midnight UTC on 2024-01-01.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock d forward.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Set jumps to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Run advances the clock by d one FrameInterval at a time, stepping loop
// after each frame, so animations and timers see every intermediate frame.
func (c *FakeClock) Run(loop *animation.FrameLoop, d time.Duration) {
	for d > 0 {
		step := min(d, FrameInterval)
		c.Advance(step)
		loop.Step()
		d -= step
	}
}
