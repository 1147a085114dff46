package presentation

import (
	"fmt"

	"github.com/go-drift/mediaview/pkg/animation"
	"github.com/go-drift/mediaview/pkg/graphics"
)

// Phase is the coarse presentation state.
type Phase int

const (
	// PhaseInline is the view in its host layout.
	PhaseInline Phase = iota
	// PhaseFullScreen covers the window.
	PhaseFullScreen
	// PhaseMinimizing is a swipe between full-screen and minimized.
	PhaseMinimizing
	// PhaseMinimized rests in the corner. It is still a full-screen presentation.
	PhaseMinimized
	// PhaseDismissing is a swipe or animation toward dismissal.
	PhaseDismissing
)

func (p Phase) String() string {
	switch p {
	case PhaseInline:
		return "inline"
	case PhaseFullScreen:
		return "full-screen"
	case PhaseMinimizing:
		return "minimizing"
	case PhaseMinimized:
		return "minimized"
	case PhaseDismissing:
		return "dismissing"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is a Phase plus the progress of a Minimizing or Dismissing phase.
type State struct {
	Phase    Phase
	Progress float64
}

func (s State) String() string {
	switch s.Phase {
	case PhaseMinimizing, PhaseDismissing:
		return fmt.Sprintf("%s(%.2f)", s.Phase, s.Progress)
	default:
		return s.Phase.String()
	}
}

// Appearance is everything the host needs to draw the view for a frame.
type Appearance struct {
	Frame          graphics.Rect
	Alpha          float64
	BorderAlpha    float64
	IndicatorAlpha float64
	OverlayAlpha   float64
	CloseAlpha     float64
	Volume         float64
}

// TweenAppearance interpolates every field of an appearance, the frame
// included, for a settle animation from begin to end.
func TweenAppearance(begin, end Appearance) animation.Tween[Appearance] {
	return animation.Tween[Appearance]{Begin: begin, End: end, Lerp: lerpAppearance}
}

func lerpAppearance(a, b Appearance, t float64) Appearance {
	f := func(x, y float64) float64 { return animation.TweenFloat64(x, y).Evaluate(t) }
	return Appearance{
		Frame:          animation.TweenRect(a.Frame, b.Frame).Evaluate(t),
		Alpha:          f(a.Alpha, b.Alpha),
		BorderAlpha:    f(a.BorderAlpha, b.BorderAlpha),
		IndicatorAlpha: f(a.IndicatorAlpha, b.IndicatorAlpha),
		OverlayAlpha:   f(a.OverlayAlpha, b.OverlayAlpha),
		CloseAlpha:     f(a.CloseAlpha, b.CloseAlpha),
		Volume:         f(a.Volume, b.Volume),
	}
}

// Commit thresholds.
const (
	MinimizeThreshold        = 0.4
	MinimizedExpandThreshold = 0.75
	DismissThreshold         = 0.35
	DismissFlingThreshold    = 0.25
	DismissFlingVelocity     = 300.0
	DismissAlphaThreshold    = 0.6
)

// ResolveMinimize decides where a released minimize swipe settles. A view
// that started minimized needs to stay further down to remain minimized.
func ResolveMinimize(p float64, minimized bool) bool {
	if minimized {
		return reached(p, MinimizedExpandThreshold)
	}
	return reached(p, MinimizeThreshold)
}

// ResolveDismiss decides whether a released dismiss swipe dismisses.
// vy is the downward velocity in points per second.
func ResolveDismiss(p, vy float64) bool {
	if reached(p, DismissThreshold) {
		return true
	}
	return p > DismissFlingThreshold && !graphics.FloatEqual(p, DismissFlingThreshold) && vy > DismissFlingVelocity
}

// reached reports p >= t, treating values within epsilon of t as equal.
// Progress is a ratio of frame offsets and rarely lands exactly on t.
func reached(p, t float64) bool {
	return p >= t || graphics.FloatEqual(p, t)
}

// TapOutcome tells the host what a tap should do after the controller has
// handled its part.
type TapOutcome int

const (
	// TapIgnored means interaction is disabled.
	TapIgnored TapOutcome = iota
	// TapRestored means the tap expanded a minimized view.
	TapRestored
	// TapPresent asks the host to present a full-screen copy.
	TapPresent
	// TapTogglePlayback asks the host to play or pause.
	TapTogglePlayback
)

func (o TapOutcome) String() string {
	switch o {
	case TapIgnored:
		return "ignored"
	case TapRestored:
		return "restored"
	case TapPresent:
		return "present"
	case TapTogglePlayback:
		return "toggle-playback"
	default:
		return fmt.Sprintf("TapOutcome(%d)", int(o))
	}
}
