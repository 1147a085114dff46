package presentation

import (
	"slices"

	"github.com/go-drift/mediaview/pkg/logging"
)

// Window hosts the controller occupying the full-screen slot.
type Window interface {
	Attach(c *Controller)
	Detach(c *Controller)
}

type nopWindow struct{}

func (nopWindow) Attach(*Controller) {}
func (nopWindow) Detach(*Controller) {}

// Queue serializes full-screen presentations. At most one controller is
// current at a time; the rest wait in order.
type Queue struct {
	window  Window
	log     logging.Logger
	current *Controller
	pending []*Controller

	dismissing bool
	waiters    []func()
}

// NewQueue returns an empty queue presenting into window. A nil window
// makes attachment a no-op.
func NewQueue(window Window, logger logging.Logger) *Queue {
	if window == nil {
		window = nopWindow{}
	}
	return &Queue{window: window, log: logging.OrNoOp(logger)}
}

// Current returns the controller in the full-screen slot, or nil.
func (q *Queue) Current() *Controller { return q.current }

// Pending returns the waiting controllers in order.
func (q *Queue) Pending() []*Controller {
	return slices.Clone(q.pending)
}

// Enqueue appends c unless it is current or already waiting.
func (q *Queue) Enqueue(c *Controller) {
	if c == nil || c == q.current || slices.Contains(q.pending, c) {
		return
	}
	q.pending = append(q.pending, c)
}

// Cancel removes c from the waiting list.
func (q *Queue) Cancel(c *Controller) {
	q.pending = slices.DeleteFunc(q.pending, func(p *Controller) bool { return p == c })
}

// PresentNext presents the first waiting controller, or dismisses the
// current one when nothing waits.
func (q *Queue) PresentNext() {
	if len(q.pending) > 0 {
		next := q.pending[0]
		q.pending = q.pending[1:]
		q.Present(next, true)
		return
	}
	if q.current != nil {
		q.DismissCurrent(true, nil)
	}
}

// Present shows c full-screen. Whatever is current is dismissed first; if
// another controller took the slot meanwhile, c waits behind it.
func (q *Queue) Present(c *Controller, animated bool) {
	if c == nil || c == q.current {
		return
	}
	q.Cancel(c)
	if q.current == nil && !q.dismissing {
		q.show(c, animated)
		return
	}
	q.DismissCurrent(animated, func() {
		if q.current == nil {
			q.show(c, animated)
		} else {
			q.Enqueue(c)
		}
	})
}

func (q *Queue) show(c *Controller, animated bool) {
	q.current = c
	c.queue = q
	q.window.Attach(c)
	q.log.Debug("presenting", "pending", len(q.pending))
	c.Present(animated, nil)
}

// DismissCurrent dismisses the current controller and calls done once it
// is gone. Calls made while a dismissal runs share its completion. With
// nothing full-screen, done runs immediately.
func (q *Queue) DismissCurrent(animated bool, done func()) {
	if q.dismissing {
		if done != nil {
			q.waiters = append(q.waiters, done)
		}
		return
	}
	c := q.current
	if c == nil || !c.IsFullScreen() {
		if c != nil {
			q.window.Detach(c)
			c.queue = nil
			q.current = nil
		}
		if done != nil {
			done()
		}
		return
	}

	q.dismissing = true
	if done != nil {
		q.waiters = append(q.waiters, done)
	}
	q.log.Debug("dismissing current")
	c.Dismiss(animated, func() {
		q.window.Detach(c)
		c.queue = nil
		if q.current == c {
			q.current = nil
		}
		q.dismissing = false
		waiters := q.waiters
		q.waiters = nil
		for _, w := range waiters {
			w()
		}
	})
}
