package cache

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/go-drift/mediaview/pkg/media"
)

// Decoder turns fetched bytes into displayable images.
type Decoder interface {
	DecodeImage(data []byte) (image.Image, error)
	DecodeAnimation(data []byte) (*media.Animation, error)
}

// ImageDecoder decodes JPEG, PNG, GIF, WebP, BMP and TIFF stills and
// animated GIFs.
type ImageDecoder struct {
	// MaxDimension bounds the longer side of decoded stills. Larger images
	// are downsampled. Zero disables the bound.
	MaxDimension int
}

// NewDecoder returns an ImageDecoder with the given bound.
func NewDecoder(maxDimension int) *ImageDecoder {
	return &ImageDecoder{MaxDimension: maxDimension}
}

// DecodeImage decodes a still image.
func (d *ImageDecoder) DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if d.MaxDimension <= 0 {
		return img, nil
	}
	b := img.Bounds()
	if b.Dx() <= d.MaxDimension && b.Dy() <= d.MaxDimension {
		return img, nil
	}
	return resize.Thumbnail(uint(d.MaxDimension), uint(d.MaxDimension), img, resize.Lanczos3), nil
}

// DecodeAnimation decodes every GIF frame onto a full-size canvas, applying
// each frame's disposal method, and returns snapshots of the canvas.
func (d *ImageDecoder) DecodeAnimation(data []byte) (*media.Animation, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("decode gif: no frames")
	}

	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))

	frames := make([]image.Image, 0, len(g.Image))
	delays := make([]int, 0, len(g.Image))
	for i, frame := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		var previous *image.RGBA
		if disposal == gif.DisposalPrevious {
			previous = snapshot(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, snapshot(canvas))

		delay := 1
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = g.Delay[i]
		}
		delays = append(delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, canvas.Bounds(), previous, image.Point{}, draw.Src)
		}
	}

	return &media.Animation{Frames: frames, Delays: delays, LoopCount: g.LoopCount}, nil
}

func snapshot(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
