package mediaview

import (
	"image"

	"github.com/go-drift/mediaview/pkg/cache"
	"github.com/go-drift/mediaview/pkg/errors"
	"github.com/go-drift/mediaview/pkg/media"
)

// SetImage shows the image at url, from the cache when possible. Unless
// ImageViewNotReused is set, the previous image is cleared while it loads.
func (v *View) SetImage(url string) {
	if v.closed {
		return
	}
	v.ref.ImageURL = url
	v.ref.Image = nil
	if !v.opts.ImageViewNotReused {
		v.still = nil
		v.Render()
	}
	v.loadStill(url)
}

// SetImageValue shows img directly.
func (v *View) SetImageValue(img image.Image) {
	if v.closed {
		return
	}
	v.ref.ImageURL = ""
	v.ref.Image = img
	v.showStill(img)
}

func (v *View) loadStill(url string) {
	if val, ok := v.rt.Cache.Get(media.Image, url); ok && val.Image != nil {
		v.ref.Image = val.Image
		v.showStill(val.Image)
		return
	}
	onImage := func(val *cache.Value) {
		if v.closed || val == nil || val.Image == nil || v.ref.ImageURL != url {
			return
		}
		v.ref.Image = val.Image
		v.delegate.DownloadedImage(v, val.Image)
		v.showStill(val.Image)
	}
	v.rt.Cache.Fetch(media.Image, url, func(val *cache.Value) {
		// Another view started this fetch; take its result.
		if val == nil && v.rt.Cache.Wait(media.Image, url, onImage) {
			return
		}
		onImage(val)
	})
}

// showStill puts img on screen unless a long press is showing the GIF.
func (v *View) showStill(img image.Image) {
	if v.longPressing {
		return
	}
	v.gif.stop()
	v.still = img
	v.delegate.ImageSet(v, img)
	v.Render()
}

// SetVideo sets the video to play. It does not load until played, unless
// ShouldPreloadPlayableMedia is set.
func (v *View) SetVideo(url string) { v.setPlayable(media.Video, url) }

// SetAudio sets the audio track to play.
func (v *View) SetAudio(url string) { v.setPlayable(media.Audio, url) }

// SetVideoWithThumbnail sets a video and the still shown until it plays.
func (v *View) SetVideoWithThumbnail(url string, thumbnail image.Image) {
	v.SetImageValue(thumbnail)
	v.SetVideo(url)
}

// SetVideoWithThumbnailURL sets a video and fetches its still from thumbnailURL.
func (v *View) SetVideoWithThumbnailURL(url, thumbnailURL string) {
	v.SetImage(thumbnailURL)
	v.SetVideo(url)
}

// SetAudioWithThumbnail sets an audio track and its artwork.
func (v *View) SetAudioWithThumbnail(url string, thumbnail image.Image) {
	v.SetImageValue(thumbnail)
	v.SetAudio(url)
}

// SetAudioWithThumbnailURL sets an audio track and fetches its artwork.
func (v *View) SetAudioWithThumbnailURL(url, thumbnailURL string) {
	v.SetImage(thumbnailURL)
	v.SetAudio(url)
}

func (v *View) setPlayable(kind media.Kind, url string) {
	if v.closed {
		return
	}
	v.closeSession()
	v.stopPulse()
	v.failed = false
	if kind == media.Video {
		v.ref.SetVideo(url)
	} else {
		v.ref.SetAudio(url)
	}
	v.track.Reset()
	v.pres.ShowIndicator(1)
	v.pres.RefreshChrome()
	if v.opts.ShouldPreloadPlayableMedia {
		v.preload(kind, url)
	}
	v.refreshTrack()
}

// SetGIF fetches and shows the GIF at url. With PressShowsGIF the GIF is
// held until the view is long-pressed.
func (v *View) SetGIF(url string) {
	if v.closed {
		return
	}
	v.ref.GIFURL = url
	v.ref.GIFData = nil
	v.ref.Animation = nil
	v.fetchGIF(url)
}

// SetGIFData decodes and shows GIF bytes.
func (v *View) SetGIFData(data []byte) {
	if v.closed {
		return
	}
	v.ref.GIFURL = ""
	v.ref.GIFData = data
	v.ref.Animation = nil
	v.decodeGIF(data)
}

func (v *View) fetchGIF(url string) {
	if val, ok := v.rt.Cache.Get(media.GIF, url); ok && val.Animation != nil {
		v.gifReady(val.Animation)
		return
	}
	onGIF := func(val *cache.Value) {
		if v.closed || val == nil || val.Animation == nil || v.ref.GIFURL != url {
			return
		}
		v.delegate.DownloadedGIF(v, val.Animation)
		v.gifReady(val.Animation)
	}
	v.rt.Cache.Fetch(media.GIF, url, func(val *cache.Value) {
		if val == nil && v.rt.Cache.Wait(media.GIF, url, onGIF) {
			return
		}
		onGIF(val)
	})
}

func (v *View) decodeGIF(data []byte) {
	a, err := v.rt.Cache.Decoder().DecodeAnimation(data)
	if err != nil {
		me := errors.New("mediaview.SetGIFData", errors.KindDecode, "", err)
		errors.Report(me)
		return
	}
	v.gifReady(a)
}

func (v *View) gifReady(a *media.Animation) {
	v.ref.Animation = a
	if v.shouldShowGIF() {
		v.showAnimation(a)
	}
}

func (v *View) shouldShowGIF() bool {
	return !v.opts.PressShowsGIF || v.longPressing
}
