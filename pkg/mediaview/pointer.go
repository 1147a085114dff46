package mediaview

import (
	"math"

	"github.com/go-drift/mediaview/pkg/presentation"
)

const (
	// TrackHitHeight is the strip at the bottom of the view that belongs
	// to the scrub bar while it is visible.
	TrackHitHeight = 60.0

	trackSlop = 4.0
)

// trackTouch follows the pointer that went down on the scrub bar.
type trackTouch struct {
	active bool
	moved  bool
	id     int64
	startX float64
}

// HandlePointer feeds a raw touch sample to the view. Touches that start on
// the visible scrub bar drive it. Everything else goes through the pan
// recognizer, which reports swipes and taps.
func (v *View) HandlePointer(ev presentation.PointerEvent) {
	if v.closed {
		return
	}
	if v.routeToTrack(ev) {
		return
	}
	v.pan.Handle(ev)
}

func (v *View) onTrack(ev presentation.PointerEvent) bool {
	if v.trackHidden() || v.pres.IsMinimized() {
		return false
	}
	f := v.look.Frame
	p := ev.Position
	return p.X >= f.Left && p.X <= f.Right && p.Y <= f.Bottom && p.Y >= f.Bottom-TrackHitHeight
}

func (v *View) routeToTrack(ev presentation.PointerEvent) bool {
	t := &v.touch
	x := ev.Position.X - v.look.Frame.Left
	switch ev.Phase {
	case presentation.PointerDown:
		if t.active {
			return true
		}
		if !v.onTrack(ev) {
			return false
		}
		*t = trackTouch{active: true, id: ev.ID, startX: x}
		return true
	case presentation.PointerMove:
		if !t.active || t.id != ev.ID {
			return t.active
		}
		if !t.moved {
			if math.Abs(x-t.startX) <= trackSlop {
				return true
			}
			t.moved = true
			v.track.DragBegan(t.startX)
		}
		v.track.DragChanged(x)
		return true
	case presentation.PointerUp, presentation.PointerCancel:
		if !t.active || t.id != ev.ID {
			return t.active
		}
		moved := t.moved
		*t = trackTouch{}
		switch {
		case moved:
			v.track.DragEnded()
		case ev.Phase == presentation.PointerUp:
			v.track.Tap(x)
		}
		return true
	}
	return false
}
