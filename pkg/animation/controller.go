package animation

import (
	"fmt"
	"time"
)

// Status represents the current state of an animation.
type Status int

const (
	// StatusIdle means no animation is running.
	StatusIdle Status = iota
	// StatusRunning means the value is moving toward its target.
	StatusRunning
	// StatusCompleted means the last animation reached its target.
	StatusCompleted
	// StatusCancelled means the last animation was stopped before its target.
	StatusCancelled
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Controller drives Value from its current position to a target over time.
//
// Each call to AnimateTo replaces the running animation. The previous
// animation's completion callback is not invoked; its status becomes
// StatusCancelled.
type Controller struct {
	// Value is the current animation value.
	Value float64

	loop      *FrameLoop
	status    Status
	ticker    *Ticker
	target    float64
	start     float64
	duration  time.Duration
	curve     func(float64) float64
	onDone    func()
	listeners map[int]func(float64)
	nextID    int
}

// NewController creates an idle controller at value 0 on loop.
func NewController(loop *FrameLoop) *Controller {
	return &Controller{
		loop:      loop,
		listeners: make(map[int]func(float64)),
	}
}

// AnimateTo moves Value to target over d using curve (nil means linear)
// and calls done once the target is reached. A non-positive d applies
// the target immediately and calls done before returning.
func (c *Controller) AnimateTo(target float64, d time.Duration, curve func(float64) float64, done func()) {
	c.cancel()

	if d <= 0 {
		c.Value = target
		c.status = StatusCompleted
		c.notify()
		if done != nil {
			done()
		}
		return
	}

	c.target = target
	c.start = c.Value
	c.duration = d
	c.curve = curve
	c.onDone = done
	c.status = StatusRunning
	c.ticker = c.loop.NewTicker(c.tick)
	c.ticker.Start()
}

func (c *Controller) tick(elapsed time.Duration) {
	progress := float64(elapsed) / float64(c.duration)
	if progress >= 1 {
		progress = 1
	}
	eased := progress
	if c.curve != nil {
		eased = c.curve(progress)
	}
	c.Value = c.start + (c.target-c.start)*eased
	c.notify()

	if progress < 1 {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
	c.status = StatusCompleted
	done := c.onDone
	c.onDone = nil
	if done != nil {
		done()
	}
}

func (c *Controller) cancel() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
		c.status = StatusCancelled
	}
	c.onDone = nil
}

// Stop halts the animation at its current value without calling its completion.
func (c *Controller) Stop() {
	c.cancel()
}

// Set jumps to v, cancelling any running animation.
func (c *Controller) Set(v float64) {
	c.cancel()
	c.Value = v
	c.notify()
}

// Status returns the current animation status.
func (c *Controller) Status() Status {
	return c.status
}

// IsAnimating returns true if an animation is running.
func (c *Controller) IsAnimating() bool {
	return c.status == StatusRunning
}

// AddListener registers fn to receive every value change.
// Returns an unsubscribe function.
func (c *Controller) AddListener(fn func(value float64)) func() {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

func (c *Controller) notify() {
	for _, l := range c.listeners {
		l(c.Value)
	}
}

// Dispose stops the controller and drops its listeners.
func (c *Controller) Dispose() {
	c.cancel()
	c.listeners = make(map[int]func(float64))
}
