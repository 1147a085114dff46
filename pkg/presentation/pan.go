package presentation

import (
	"math"
	"time"

	"github.com/go-drift/mediaview/pkg/graphics"
)

// DefaultTouchSlop is how far a pointer moves before a touch becomes a pan.
const DefaultTouchSlop = 18.0

// PanPhase is the stage of a pan gesture.
type PanPhase int

const (
	PanBegan PanPhase = iota
	PanChanged
	PanEnded
	PanCancelled
	PanFailed
)

// PanEvent is one step of a pan. Translation is cumulative from the start of
// the gesture; Velocity is in points per second.
type PanEvent struct {
	Phase       PanPhase
	Translation graphics.Offset
	Velocity    graphics.Offset
}

// PointerPhase is the stage of a raw pointer.
type PointerPhase int

const (
	PointerDown PointerPhase = iota
	PointerMove
	PointerUp
	PointerCancel
)

// PointerEvent is a raw touch sample. A zero Time is stamped with the
// recognizer's clock.
type PointerEvent struct {
	ID       int64
	Phase    PointerPhase
	Position graphics.Offset
	Time     time.Time
}

// PanRecognizer turns pointer samples into pan events and taps.
type PanRecognizer struct {
	// OnPan receives pan events once the pointer has moved past Slop.
	OnPan func(PanEvent)
	// OnTap runs when a pointer lifts without having moved past Slop.
	OnTap func(pos graphics.Offset)
	// Slop overrides DefaultTouchSlop when positive.
	Slop float64
	// Now stamps events that carry no time. Nil uses time.Now.
	Now func() time.Time

	pointer  int64
	tracking bool
	start    graphics.Offset
	last     graphics.Offset
	lastTime time.Time
	velocity graphics.Offset
	started  bool
}

func (r *PanRecognizer) stamp(ev PointerEvent) time.Time {
	if !ev.Time.IsZero() {
		return ev.Time
	}
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Handle feeds one pointer sample. Samples from other pointers are ignored
// while one is tracked.
func (r *PanRecognizer) Handle(ev PointerEvent) {
	if ev.Phase == PointerDown {
		if r.tracking {
			return
		}
		r.pointer = ev.ID
		r.tracking = true
		r.start = ev.Position
		r.last = ev.Position
		r.lastTime = r.stamp(ev)
		r.velocity = graphics.Offset{}
		r.started = false
		return
	}
	if !r.tracking || ev.ID != r.pointer {
		return
	}
	switch ev.Phase {
	case PointerMove:
		r.move(ev)
	case PointerUp:
		r.tracking = false
		if r.started {
			r.emit(PanEnded, ev.Position)
		} else if r.OnTap != nil {
			r.OnTap(ev.Position)
		}
	case PointerCancel:
		r.tracking = false
		if r.started {
			r.emit(PanCancelled, r.last)
		}
	}
}

func (r *PanRecognizer) move(ev PointerEvent) {
	now := r.stamp(ev)
	dt := now.Sub(r.lastTime).Seconds()

	delta := ev.Position.Sub(r.last)
	if dt > 0 {
		r.velocity = graphics.Offset{
			X: r.velocity.X*0.8 + delta.X/dt*0.2,
			Y: r.velocity.Y*0.8 + delta.Y/dt*0.2,
		}
	}
	r.last = ev.Position
	r.lastTime = now

	if !r.started {
		total := ev.Position.Sub(r.start)
		if math.Hypot(total.X, total.Y) <= r.slop() {
			return
		}
		r.started = true
		r.emit(PanBegan, ev.Position)
	}
	r.emit(PanChanged, ev.Position)
}

func (r *PanRecognizer) emit(phase PanPhase, pos graphics.Offset) {
	if r.OnPan == nil {
		return
	}
	r.OnPan(PanEvent{
		Phase:       phase,
		Translation: pos.Sub(r.start),
		Velocity:    r.velocity,
	})
}

func (r *PanRecognizer) slop() float64 {
	if r.Slop > 0 {
		return r.Slop
	}
	return DefaultTouchSlop
}

// Reset drops the tracked pointer without emitting anything.
func (r *PanRecognizer) Reset() {
	r.tracking = false
	r.started = false
}
