package testing

import (
	"fmt"

	"github.com/go-drift/mediaview/pkg/graphics"
	"github.com/go-drift/mediaview/pkg/presentation"
)

// RecordingDelegate records presentation callbacks as short strings such
// as "willEndMinimizing(true)".
type RecordingDelegate struct {
	Events  []string
	Offsets []float64
}

func (d *RecordingDelegate) add(s string) { d.Events = append(d.Events, s) }

func (d *RecordingDelegate) WillPresent()              { d.add("willPresent") }
func (d *RecordingDelegate) DidPresent()               { d.add("didPresent") }
func (d *RecordingDelegate) WillDismiss()              { d.add("willDismiss") }
func (d *RecordingDelegate) DidDismiss()               { d.add("didDismiss") }
func (d *RecordingDelegate) WillChangeMinimization()   { d.add("willChangeMinimization") }
func (d *RecordingDelegate) DidChangeMinimization()    { d.add("didChangeMinimization") }
func (d *RecordingDelegate) WillChangeDismissing()     { d.add("willChangeDismissing") }
func (d *RecordingDelegate) DidChangeDismissing()      { d.add("didChangeDismissing") }
func (d *RecordingDelegate) OffsetChanged(p float64)   { d.Offsets = append(d.Offsets, p) }
func (d *RecordingDelegate) WillEndMinimizing(m bool)  { d.add(fmt.Sprintf("willEndMinimizing(%t)", m)) }
func (d *RecordingDelegate) DidEndMinimizing(m bool)   { d.add(fmt.Sprintf("didEndMinimizing(%t)", m)) }
func (d *RecordingDelegate) WillEndDismissing(ok bool) { d.add(fmt.Sprintf("willEndDismissing(%t)", ok)) }
func (d *RecordingDelegate) DidEndDismissing(ok bool)  { d.add(fmt.Sprintf("didEndDismissing(%t)", ok)) }

// Has reports whether event was recorded.
func (d *RecordingDelegate) Has(event string) bool {
	for _, e := range d.Events {
		if e == event {
			return true
		}
	}
	return false
}

// Filter returns the recorded events that are not per-frame change
// notifications.
func (d *RecordingDelegate) Filter() []string {
	var out []string
	for _, e := range d.Events {
		switch e {
		case "willChangeMinimization", "didChangeMinimization", "willChangeDismissing", "didChangeDismissing":
			continue
		}
		out = append(out, e)
	}
	return out
}

// Reset forgets everything recorded.
func (d *RecordingDelegate) Reset() {
	d.Events = nil
	d.Offsets = nil
}

// FakeContent is a presentation.Content with settable playback flags.
type FakeContent struct {
	Playable  bool
	Playing   bool
	Loading   bool
	Title     bool
	Last      presentation.Appearance
	Applies   int
	Presents  int
	Dismisses int
}

func (c *FakeContent) HasPlayableMedia() bool { return c.Playable }
func (c *FakeContent) IsPlaying() bool        { return c.Playing }
func (c *FakeContent) IsLoading() bool        { return c.Loading }
func (c *FakeContent) HasTitle() bool         { return c.Title }
func (c *FakeContent) Presented()             { c.Presents++ }
func (c *FakeContent) Dismissed()             { c.Dismisses++ }

func (c *FakeContent) Apply(a presentation.Appearance) {
	c.Last = a
	c.Applies++
}

// RecordingWindow records attach and detach calls.
type RecordingWindow struct {
	Events []string
	names  map[*presentation.Controller]string
}

// Name labels c in recorded events.
func (w *RecordingWindow) Name(c *presentation.Controller, name string) {
	if w.names == nil {
		w.names = make(map[*presentation.Controller]string)
	}
	w.names[c] = name
}

func (w *RecordingWindow) label(c *presentation.Controller) string {
	if n, ok := w.names[c]; ok {
		return n
	}
	return fmt.Sprintf("%p", c)
}

func (w *RecordingWindow) Attach(c *presentation.Controller) {
	w.Events = append(w.Events, "attach "+w.label(c))
}

func (w *RecordingWindow) Detach(c *presentation.Controller) {
	w.Events = append(w.Events, "detach "+w.label(c))
}

// Swipe drives a full pan: began, one changed per step up to (dx, dy), then
// ended with velocity v.
func Swipe(c *presentation.Controller, dx, dy float64, steps int, v graphics.Offset) {
	SwipeWithoutRelease(c, dx, dy, steps, v)
	c.HandlePan(presentation.PanEvent{
		Phase:       presentation.PanEnded,
		Translation: graphics.Offset{X: dx, Y: dy},
		Velocity:    v,
	})
}

// SwipeWithoutRelease drives began and the changed events of a pan.
func SwipeWithoutRelease(c *presentation.Controller, dx, dy float64, steps int, v graphics.Offset) {
	if steps < 1 {
		steps = 1
	}
	c.HandlePan(presentation.PanEvent{Phase: presentation.PanBegan})
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		c.HandlePan(presentation.PanEvent{
			Phase:       presentation.PanChanged,
			Translation: graphics.Offset{X: dx * f, Y: dy * f},
			Velocity:    v,
		})
	}
}
