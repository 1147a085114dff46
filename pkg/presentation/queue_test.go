package presentation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mediaview/pkg/animation"
	"github.com/go-drift/mediaview/pkg/presentation"
	mediatest "github.com/go-drift/mediaview/pkg/testing"
)

type queueHarness struct {
	clk    *mediatest.FakeClock
	loop   *animation.FrameLoop
	window *mediatest.RecordingWindow
	q      *presentation.Queue
}

func newQueueHarness() *queueHarness {
	clk := mediatest.NewFakeClock()
	window := &mediatest.RecordingWindow{}
	return &queueHarness{
		clk:    clk,
		loop:   animation.NewFrameLoop(clk),
		window: window,
		q:      presentation.NewQueue(window, nil),
	}
}

func (h *queueHarness) controller(name string) *presentation.Controller {
	c := presentation.NewController(h.loop, portrait, presentation.DefaultOptions())
	h.window.Name(c, name)
	return c
}

func (h *queueHarness) pump(frames int) {
	for range frames {
		h.clk.Advance(100 * time.Millisecond)
		h.loop.Step()
	}
}

func TestQueue_EnqueueDedupes(t *testing.T) {
	h := newQueueHarness()
	a, b := h.controller("a"), h.controller("b")

	h.q.Present(a, false)
	h.q.Enqueue(a)
	h.q.Enqueue(b)
	h.q.Enqueue(b)
	h.q.Enqueue(nil)
	assert.Equal(t, []*presentation.Controller{b}, h.q.Pending())

	h.q.Cancel(b)
	assert.Empty(t, h.q.Pending())
}

func TestQueue_PresentReplacesCurrent(t *testing.T) {
	h := newQueueHarness()
	a, b := h.controller("a"), h.controller("b")

	h.q.Present(a, false)
	require.Same(t, a, h.q.Current())
	assert.True(t, a.IsFullScreen())

	h.q.Present(b, true)
	assert.Same(t, a, h.q.Current(), "a stays current until its dismissal ends")
	h.pump(3)

	assert.Same(t, b, h.q.Current())
	assert.False(t, a.IsFullScreen())
	assert.True(t, b.IsFullScreen())
	assert.Equal(t, []string{"attach a", "detach a", "attach b"}, h.window.Events)
}

func TestQueue_PresentDuringPresentAnimation(t *testing.T) {
	h := newQueueHarness()
	a, b := h.controller("a"), h.controller("b")
	da, ca := &mediatest.RecordingDelegate{}, &mediatest.FakeContent{}
	a.SetDelegate(da)
	a.SetContent(ca)

	h.q.Present(a, true)
	h.pump(1)
	require.NotContains(t, da.Events, "didPresent")

	h.q.Present(b, true)
	h.pump(8)

	assert.Equal(t, []string{"willPresent", "didPresent", "willDismiss", "didDismiss"}, da.Filter())
	assert.Equal(t, 1, ca.Presents)
	assert.Equal(t, 1, ca.Dismisses)
	assert.Same(t, b, h.q.Current())
	assert.True(t, b.IsFullScreen())
	assert.True(t, b.IsInteractive())
}

func TestQueue_DismissWithNothingCurrent(t *testing.T) {
	h := newQueueHarness()
	called := 0
	h.q.DismissCurrent(true, func() { called++ })
	assert.Equal(t, 1, called)
	assert.Empty(t, h.window.Events)
}

func TestQueue_DismissDetachesStaleCurrent(t *testing.T) {
	h := newQueueHarness()
	a := h.controller("a")
	h.q.Present(a, false)
	a.Dismiss(false, nil)

	called := false
	h.q.DismissCurrent(true, func() { called = true })
	assert.True(t, called)
	assert.Nil(t, h.q.Current())
	assert.Equal(t, []string{"attach a", "detach a"}, h.window.Events)
}

func TestQueue_ConcurrentDismissalsShareCompletion(t *testing.T) {
	h := newQueueHarness()
	a := h.controller("a")
	h.q.Present(a, false)

	var order []int
	h.q.DismissCurrent(true, func() { order = append(order, 1) })
	h.q.DismissCurrent(true, func() { order = append(order, 2) })
	assert.Empty(t, order)

	h.pump(3)
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, []string{"attach a", "detach a"}, h.window.Events)
}

func TestQueue_PresentDuringDismissalWaits(t *testing.T) {
	h := newQueueHarness()
	a, b, c := h.controller("a"), h.controller("b"), h.controller("c")
	h.q.Present(a, false)

	h.q.DismissCurrent(true, nil)
	h.q.Present(b, true)
	h.q.Present(c, true)
	h.pump(3)

	assert.Same(t, b, h.q.Current())
	assert.Equal(t, []*presentation.Controller{c}, h.q.Pending())
	assert.Equal(t, []string{"attach a", "detach a", "attach b"}, h.window.Events)
}

func TestQueue_PresentNext(t *testing.T) {
	h := newQueueHarness()
	a, b := h.controller("a"), h.controller("b")
	h.q.Present(a, false)
	h.q.Enqueue(b)

	h.q.PresentNext()
	h.pump(3)
	assert.Same(t, b, h.q.Current())
	assert.Empty(t, h.q.Pending())

	h.pump(3)
	h.q.PresentNext()
	h.pump(3)
	assert.Nil(t, h.q.Current())
	assert.False(t, b.IsFullScreen())
	assert.Equal(t, []string{"attach a", "detach a", "attach b", "detach b"}, h.window.Events)
}

func TestQueue_CloseButtonDismissesThroughQueue(t *testing.T) {
	h := newQueueHarness()
	a := h.controller("a")
	h.q.Present(a, false)

	a.Close()
	h.pump(3)
	assert.Nil(t, h.q.Current())
	assert.Equal(t, []string{"attach a", "detach a"}, h.window.Events)
}
