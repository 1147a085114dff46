package mediaview

import (
	"image"

	"github.com/go-drift/mediaview/pkg/graphics"
	"github.com/go-drift/mediaview/pkg/presentation"
)

// Options configures one View. Start from DefaultOptions.
type Options struct {
	SwipeMode presentation.SwipeMode

	// ShouldDisplayFullscreen presents a full-screen copy when the inline view is tapped.
	ShouldDisplayFullscreen bool
	// ShouldAutoPlayAfterPresentation starts playable media once presented.
	ShouldAutoPlayAfterPresentation bool
	// ShouldDismissAfterFinishedPlaying dismisses a full-screen view when its media ends.
	ShouldDismissAfterFinishedPlaying bool
	// ShouldPresentFromOriginRect grows the full-screen copy out of the inline frame.
	ShouldPresentFromOriginRect bool
	ShouldHideCloseButton       bool
	ShouldHidePlayButton        bool

	AllowLooping               bool
	ShouldShowTrack            bool
	ShouldDisplayRemainingTime bool

	// ShouldPreloadPlayableMedia downloads video and audio as soon as they are set.
	ShouldPreloadPlayableMedia bool
	// ShouldCacheStreamedMedia persists remote video once it has fully buffered.
	ShouldCacheStreamedMedia bool
	// FromDirectory treats every location as a local file path.
	FromDirectory bool
	// ImageViewNotReused keeps the previous image on screen while a new one loads.
	ImageViewNotReused bool
	// VideoAspectFit letterboxes video instead of filling the frame.
	VideoAspectFit bool
	// PressShowsGIF shows the GIF while an inline view is long-pressed.
	PressShowsGIF bool

	MinimizedAspectRatio float64
	MinimizedWidthRatio  float64
	TopBuffer            float64
	BottomBuffer         float64

	ThemeColor        graphics.Color
	CustomPlayButton  image.Image
	CustomMusicButton image.Image
	CustomFailButton  image.Image
}

// DefaultOptions returns the options of a freshly created view.
func DefaultOptions() Options {
	p := presentation.DefaultOptions()
	return Options{
		MinimizedAspectRatio: p.MinimizedAspectRatio,
		MinimizedWidthRatio:  p.MinimizedWidthRatio,
		ThemeColor:           graphics.ColorCyan,
	}
}

// presentation returns the presentation options o implies.
func (o Options) presentation() presentation.Options {
	return presentation.Options{
		SwipeMode:               o.SwipeMode,
		MinimizedAspectRatio:    o.MinimizedAspectRatio,
		MinimizedWidthRatio:     o.MinimizedWidthRatio,
		TopBuffer:               o.TopBuffer,
		BottomBuffer:            o.BottomBuffer,
		ShouldDisplayFullscreen: o.ShouldDisplayFullscreen,
		ShouldHideCloseButton:   o.ShouldHideCloseButton,
		ShouldHidePlayButton:    o.ShouldHidePlayButton,
	}
}

// withClamped copies the clamped geometry of p back into o.
func (o Options) withClamped(p presentation.Options) Options {
	o.MinimizedAspectRatio = p.MinimizedAspectRatio
	o.MinimizedWidthRatio = p.MinimizedWidthRatio
	o.TopBuffer = p.TopBuffer
	o.BottomBuffer = p.BottomBuffer
	return o
}
