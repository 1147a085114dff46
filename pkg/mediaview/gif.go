package mediaview

import (
	"image"
	"time"

	"github.com/go-drift/mediaview/pkg/media"
)

// minFrameDelay replaces zero or missing GIF delays, as browsers do.
const minFrameDelay = 10 * time.Millisecond

// gifPlayer steps through an animation on the frame loop.
type gifPlayer struct {
	anim   *media.Animation
	frame  int
	loops  int
	cancel func()
}

func (g *gifPlayer) current() image.Image {
	if g.anim == nil || len(g.anim.Frames) == 0 {
		return nil
	}
	return g.anim.Frames[g.frame]
}

func (g *gifPlayer) stop() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.anim = nil
	g.frame = 0
	g.loops = 0
}

// delay returns how long frame i stays on screen.
func (g *gifPlayer) delay(i int) time.Duration {
	if i >= len(g.anim.Delays) || g.anim.Delays[i] <= 0 {
		return minFrameDelay
	}
	return time.Duration(g.anim.Delays[i]) * 10 * time.Millisecond
}

// done reports whether another pass would exceed the loop count.
func (g *gifPlayer) done() bool {
	switch n := g.anim.LoopCount; {
	case n < 0:
		return true
	case n == 0:
		return false
	default:
		return g.loops > n
	}
}

func (v *View) showAnimation(a *media.Animation) {
	v.gif.stop()
	v.gif.anim = a
	if img := a.FirstFrame(); img != nil {
		v.delegate.ImageSet(v, img)
	}
	v.scheduleGIFFrame()
	v.Render()
}

func (v *View) scheduleGIFFrame() {
	if len(v.gif.anim.Frames) < 2 {
		return
	}
	v.gif.cancel = v.rt.Loop.After(v.gif.delay(v.gif.frame), v.advanceGIF)
}

func (v *View) advanceGIF() {
	v.gif.cancel = nil
	if v.gif.anim == nil {
		return
	}
	next := v.gif.frame + 1
	if next >= len(v.gif.anim.Frames) {
		v.gif.loops++
		if v.gif.done() {
			return
		}
		next = 0
	}
	v.gif.frame = next
	v.Render()
	v.scheduleGIFFrame()
}

// LongPressPhase is the stage of a long press on the view.
type LongPressPhase int

const (
	LongPressBegan LongPressPhase = iota
	LongPressEnded
	LongPressCancelled
)

// HandleLongPress swaps the still for the GIF while an inline view with
// PressShowsGIF is held down.
func (v *View) HandleLongPress(phase LongPressPhase) {
	if v.closed || !v.opts.PressShowsGIF || v.pres.IsFullScreen() {
		return
	}
	switch phase {
	case LongPressBegan:
		if v.longPressing {
			return
		}
		v.longPressing = true
		switch {
		case v.ref.Animation != nil:
			v.showAnimation(v.ref.Animation)
		case v.ref.GIFURL != "":
			v.fetchGIF(v.ref.GIFURL)
		case len(v.ref.GIFData) > 0:
			v.decodeGIF(v.ref.GIFData)
		}
		v.pres.SetIndicatorAlpha(0)
	case LongPressEnded, LongPressCancelled:
		if !v.longPressing {
			return
		}
		v.longPressing = false
		v.gif.stop()
		switch {
		case v.ref.Image != nil:
			v.showStill(v.ref.Image)
		case v.ref.ImageURL != "":
			v.loadStill(v.ref.ImageURL)
		}
		v.pres.ShowIndicator(1)
		v.Render()
	}
}
