package mediaview

import (
	"fmt"
	"image"

	"github.com/google/uuid"

	"github.com/go-drift/mediaview/pkg/graphics"
	"github.com/go-drift/mediaview/pkg/presentation"
)

// Surface draws a view. Render is called on the UI thread whenever
// something visible changes.
type Surface interface {
	Render(f Frame)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(f Frame)

// Render calls fn(f).
func (fn SurfaceFunc) Render(f Frame) { fn(f) }

type nopSurface struct{}

func (nopSurface) Render(Frame) {}

// Indicator selects the icon drawn over the media.
type Indicator int

const (
	IndicatorNone Indicator = iota
	IndicatorPlay
	IndicatorMusic
	IndicatorFail
)

func (i Indicator) String() string {
	switch i {
	case IndicatorNone:
		return "none"
	case IndicatorPlay:
		return "play"
	case IndicatorMusic:
		return "music"
	case IndicatorFail:
		return "fail"
	default:
		return fmt.Sprintf("Indicator(%d)", int(i))
	}
}

// TrackFrame is the scrub bar state for one frame.
type TrackFrame struct {
	Height        float64
	ProgressWidth float64
	BufferWidth   float64
	LabelAlpha    float64
	Elapsed       string
	Total         string
}

// Frame is everything a Surface needs to draw a view once.
type Frame struct {
	ID         uuid.UUID
	FullScreen bool
	Appearance presentation.Appearance

	// Image is the still, thumbnail or current GIF frame.
	Image     image.Image
	AspectFit bool

	Indicator Indicator
	// IndicatorImage is a custom button replacing the default icon.
	IndicatorImage image.Image

	// Track is nil while the scrub bar is hidden.
	Track *TrackFrame

	Title   string
	Details string
	Theme   graphics.Color
}
