package mediaview

import (
	"image"

	"github.com/go-drift/mediaview/pkg/media"
)

// Delegate observes a View. Embed NopDelegate to implement only the
// callbacks you need. Every callback runs on the UI thread.
type Delegate interface {
	// OffsetChanged reports swipe progress in [0, 1].
	OffsetChanged(v *View, p float64)

	Played(v *View)
	Paused(v *View)
	Failed(v *View, err error)
	// Finished reports the end of playable media and whether it loops.
	Finished(v *View, looped bool)

	WillPresent(v *View)
	DidPresent(v *View)
	WillDismiss(v *View)
	DidDismiss(v *View)

	WillChangeMinimization(v *View)
	DidChangeMinimization(v *View)
	WillEndMinimizing(v *View, minimized bool)
	DidEndMinimizing(v *View, minimized bool)

	WillChangeDismissing(v *View)
	DidChangeDismissing(v *View)
	WillEndDismissing(v *View, dismissed bool)
	DidEndDismissing(v *View, dismissed bool)

	// ImageSet reports every image put on screen, including thumbnails.
	ImageSet(v *View, img image.Image)
	DownloadedImage(v *View, img image.Image)
	DownloadedVideo(v *View, path string)
	DownloadedAudio(v *View, path string)
	DownloadedGIF(v *View, a *media.Animation)

	TitleTapped(v *View)
	DetailsTapped(v *View)
}

// NopDelegate ignores every callback.
type NopDelegate struct{}

func (NopDelegate) OffsetChanged(*View, float64)          {}
func (NopDelegate) Played(*View)                          {}
func (NopDelegate) Paused(*View)                          {}
func (NopDelegate) Failed(*View, error)                   {}
func (NopDelegate) Finished(*View, bool)                  {}
func (NopDelegate) WillPresent(*View)                     {}
func (NopDelegate) DidPresent(*View)                      {}
func (NopDelegate) WillDismiss(*View)                     {}
func (NopDelegate) DidDismiss(*View)                      {}
func (NopDelegate) WillChangeMinimization(*View)          {}
func (NopDelegate) DidChangeMinimization(*View)           {}
func (NopDelegate) WillEndMinimizing(*View, bool)         {}
func (NopDelegate) DidEndMinimizing(*View, bool)          {}
func (NopDelegate) WillChangeDismissing(*View)            {}
func (NopDelegate) DidChangeDismissing(*View)             {}
func (NopDelegate) WillEndDismissing(*View, bool)         {}
func (NopDelegate) DidEndDismissing(*View, bool)          {}
func (NopDelegate) ImageSet(*View, image.Image)           {}
func (NopDelegate) DownloadedImage(*View, image.Image)    {}
func (NopDelegate) DownloadedVideo(*View, string)         {}
func (NopDelegate) DownloadedAudio(*View, string)         {}
func (NopDelegate) DownloadedGIF(*View, *media.Animation) {}
func (NopDelegate) TitleTapped(*View)                     {}
func (NopDelegate) DetailsTapped(*View)                   {}

// presenter forwards presentation callbacks to the view's Delegate.
type presenter struct{ v *View }

func (p presenter) WillPresent()              { p.v.delegate.WillPresent(p.v) }
func (p presenter) WillDismiss()              { p.v.delegate.WillDismiss(p.v) }
func (p presenter) WillChangeMinimization()   { p.v.delegate.WillChangeMinimization(p.v) }
func (p presenter) DidChangeMinimization()    { p.v.delegate.DidChangeMinimization(p.v) }
func (p presenter) WillChangeDismissing()     { p.v.delegate.WillChangeDismissing(p.v) }
func (p presenter) DidChangeDismissing()      { p.v.delegate.DidChangeDismissing(p.v) }
func (p presenter) OffsetChanged(pct float64) { p.v.delegate.OffsetChanged(p.v, pct) }
func (p presenter) WillEndMinimizing(m bool)  { p.v.delegate.WillEndMinimizing(p.v, m) }
func (p presenter) WillEndDismissing(d bool)  { p.v.delegate.WillEndDismissing(p.v, d) }
func (p presenter) DidEndDismissing(d bool)   { p.v.delegate.DidEndDismissing(p.v, d) }

func (p presenter) DidPresent() {
	p.v.refreshTrack()
	p.v.delegate.DidPresent(p.v)
}

func (p presenter) DidDismiss() {
	p.v.delegate.DidDismiss(p.v)
}

func (p presenter) DidEndMinimizing(m bool) {
	p.v.refreshTrack()
	p.v.delegate.DidEndMinimizing(p.v, m)
}
