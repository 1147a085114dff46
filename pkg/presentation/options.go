package presentation

import (
	"fmt"
	"strings"

	"github.com/go-drift/mediaview/pkg/graphics"
)

// SwipeMode selects what a vertical swipe on a full-screen view does.
type SwipeMode int

const (
	// SwipeNone ignores swipes.
	SwipeNone SwipeMode = iota
	// SwipeDismiss drags the view down and off the screen.
	SwipeDismiss
	// SwipeMinimize shrinks the view into a corner.
	SwipeMinimize
)

// MovesWhenSwipe reports whether a swipe moves the view at all.
func (m SwipeMode) MovesWhenSwipe() bool {
	return m == SwipeDismiss || m == SwipeMinimize
}

func (m SwipeMode) String() string {
	switch m {
	case SwipeNone:
		return "none"
	case SwipeDismiss:
		return "dismiss"
	case SwipeMinimize:
		return "minimize"
	default:
		return fmt.Sprintf("SwipeMode(%d)", int(m))
	}
}

// ParseSwipeMode maps a configuration name to a SwipeMode.
func ParseSwipeMode(s string) (SwipeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SwipeNone, nil
	case "dismiss":
		return SwipeDismiss, nil
	case "minimize":
		return SwipeMinimize, nil
	default:
		return SwipeNone, fmt.Errorf("presentation: unknown swipe mode %q", s)
	}
}

// Screen is the window size in points for the current orientation.
type Screen struct {
	Width  float64
	Height float64
}

// Portrait reports whether the screen is at least as tall as it is wide.
func (s Screen) Portrait() bool { return s.Height >= s.Width }

// Rect is the full-screen frame.
func (s Screen) Rect() graphics.Rect {
	return graphics.RectFromLTWH(0, 0, s.Width, s.Height)
}

// Clamp bounds for Options.
const (
	MinWidthRatio   = 0.25
	MaxTopBuffer    = 64.0
	MaxBottomBuffer = 120.0

	// edgeInset separates the minimized view from the screen edges.
	edgeInset = 12.0
)

// Options configures presentation geometry and chrome.
type Options struct {
	SwipeMode SwipeMode

	// MinimizedAspectRatio is height over width of the minimized view.
	MinimizedAspectRatio float64
	// MinimizedWidthRatio is the share of the screen width the minimized view spans.
	MinimizedWidthRatio float64
	// TopBuffer offsets chrome below a status bar in portrait.
	TopBuffer float64
	// BottomBuffer lifts the minimized view above toolbars.
	BottomBuffer float64

	ShouldDisplayFullscreen bool
	ShouldHideCloseButton   bool
	ShouldHidePlayButton    bool

	// OriginRect is where a presentation starts, in the coordinates of the
	// view's original parent. Nil fades in over the whole screen.
	OriginRect *graphics.Rect
	// ConvertToWindow maps OriginRect into window coordinates. Nil means
	// the coordinates already are window coordinates.
	ConvertToWindow func(graphics.Rect) graphics.Rect
}

// DefaultOptions returns a landscape-shaped minimized view half the screen wide.
func DefaultOptions() Options {
	return Options{
		MinimizedAspectRatio: graphics.LandscapeRatio,
		MinimizedWidthRatio:  0.5,
	}
}

// MaxWidthRatio is the widest minimized view that keeps the edge insets on screen.
func MaxWidthRatio(s Screen) float64 {
	if s.Width <= 2*edgeInset {
		return MinWidthRatio
	}
	return (s.Width - 2*edgeInset) / s.Width
}

// Clamp returns o with every numeric field bounded for screen s.
func (o Options) Clamp(s Screen) Options {
	o.MinimizedAspectRatio = graphics.Clamp(o.MinimizedAspectRatio, graphics.LandscapeRatio, graphics.PortraitRatio)
	o.MinimizedWidthRatio = graphics.Clamp(o.MinimizedWidthRatio, MinWidthRatio, MaxWidthRatio(s))
	o.TopBuffer = graphics.Clamp(o.TopBuffer, 0, MaxTopBuffer)
	o.BottomBuffer = graphics.Clamp(o.BottomBuffer, 0, MaxBottomBuffer)
	return o
}
