// Package mediaview is an embeddable media widget. A View shows an image,
// a GIF, a video or an audio track inline, can present itself full screen
// through the shared presentation queue, and can be swiped to a minimized
// corner or away entirely.
//
// Views are not safe for concurrent use. Every method must run on the UI
// thread that drains the Runtime's dispatcher and steps its frame loop.
package mediaview

import (
	"image"

	"github.com/google/uuid"

	"github.com/go-drift/mediaview/pkg/graphics"
	"github.com/go-drift/mediaview/pkg/logging"
	"github.com/go-drift/mediaview/pkg/media"
	"github.com/go-drift/mediaview/pkg/playback"
	"github.com/go-drift/mediaview/pkg/presentation"
	"github.com/go-drift/mediaview/pkg/track"
)

// View is one media widget.
type View struct {
	// ID identifies the view in frames and logs.
	ID uuid.UUID

	rt       *Runtime
	log      logging.Logger
	delegate Delegate
	surface  Surface
	opts     Options

	pres  *presentation.Controller
	track *track.Controller
	pan   presentation.PanRecognizer
	touch trackTouch
	look  presentation.Appearance

	ref          media.Reference
	still        image.Image
	gif          gifPlayer
	longPressing bool
	title        string
	details      string

	session     *playback.Session
	volume      float64
	failed      bool
	pulseCancel func()

	// source is the inline view a full-screen copy was made from.
	source *View
	closed bool
}

// New creates an inline view drawn on surface and registers it with rt.
func New(rt *Runtime, surface Surface, opts Options) *View {
	if surface == nil {
		surface = nopSurface{}
	}
	v := &View{
		ID:       uuid.New(),
		rt:       rt,
		delegate: NopDelegate{},
		surface:  surface,
		volume:   1,
	}
	v.log = rt.Logger("view")

	v.pres = presentation.NewController(rt.Loop, rt.screen, opts.presentation())
	v.opts = opts.withClamped(v.pres.Options())
	v.look = v.pres.Appearance()

	v.track = track.New(rt.Loop, v.look.Frame.Width())
	v.track.ShowRemaining = opts.ShouldDisplayRemainingTime
	v.track.Color = opts.ThemeColor
	v.track.OnSeek = v.seek
	v.track.OnChange = v.Render

	v.pan.OnPan = v.HandlePan
	v.pan.OnTap = func(graphics.Offset) { v.HandleTap() }
	v.pan.Now = rt.Loop.Now

	v.pres.OnSwipeBegan = v.track.Collapse
	v.pres.OnSwipeEnded = v.refreshTrack
	v.pres.SetDelegate(presenter{v})
	v.pres.SetContent(content{v})

	rt.register(v)
	return v
}

// Controller returns the presentation state machine behind the view.
func (v *View) Controller() *presentation.Controller { return v.pres }

// Track returns the scrub bar controller.
func (v *View) Track() *track.Controller { return v.track }

// SetDelegate replaces the observer. Nil restores NopDelegate.
func (v *View) SetDelegate(d Delegate) {
	if d == nil {
		d = NopDelegate{}
	}
	v.delegate = d
}

// SetSurface replaces the drawing target.
func (v *View) SetSurface(s Surface) {
	if s == nil {
		s = nopSurface{}
	}
	v.surface = s
	v.Render()
}

// Options returns the view's options with geometry clamped to the screen.
func (v *View) Options() Options { return v.opts }

// SetOptions replaces every option at once.
func (v *View) SetOptions(o Options) {
	cur := v.pres.Options()
	p := o.presentation()
	p.OriginRect = cur.OriginRect
	p.ConvertToWindow = cur.ConvertToWindow
	v.pres.SetOptions(p)
	v.opts = o.withClamped(v.pres.Options())
	v.track.ShowRemaining = o.ShouldDisplayRemainingTime
	v.track.Color = o.ThemeColor
	v.refreshTrack()
}

func (v *View) update(fn func(o *Options)) {
	o := v.opts
	fn(&o)
	v.SetOptions(o)
}

// SetSwipeMode sets what a vertical swipe on a full-screen view does.
func (v *View) SetSwipeMode(m presentation.SwipeMode) {
	v.update(func(o *Options) { o.SwipeMode = m })
}

// SetMinimizedAspectRatio sets the height to width ratio of the minimized view.
func (v *View) SetMinimizedAspectRatio(r float64) {
	v.update(func(o *Options) { o.MinimizedAspectRatio = r })
}

// SetMinimizedWidthRatio sets the minimized width as a fraction of the screen width.
func (v *View) SetMinimizedWidthRatio(r float64) {
	v.update(func(o *Options) { o.MinimizedWidthRatio = r })
}

// SetTopBuffer sets the chrome offset below the status bar.
func (v *View) SetTopBuffer(b float64) {
	v.update(func(o *Options) { o.TopBuffer = b })
}

// SetBottomBuffer sets the space kept below the minimized view.
func (v *View) SetBottomBuffer(b float64) {
	v.update(func(o *Options) { o.BottomBuffer = b })
}

// SetThemeColor sets the tint of the track and the full-screen chrome.
func (v *View) SetThemeColor(c graphics.Color) {
	v.update(func(o *Options) { o.ThemeColor = c })
}

// SetShouldShowTrack shows or hides the scrub bar.
func (v *View) SetShouldShowTrack(show bool) {
	v.update(func(o *Options) { o.ShouldShowTrack = show })
}

// SetShouldDisplayRemainingTime shows the time left instead of the duration.
func (v *View) SetShouldDisplayRemainingTime(remaining bool) {
	v.update(func(o *Options) { o.ShouldDisplayRemainingTime = remaining })
}

// SetShouldHidePlayButton hides the indicator regardless of playback state.
func (v *View) SetShouldHidePlayButton(hide bool) {
	v.opts.ShouldHidePlayButton = hide
	v.pres.SetShouldHidePlayButton(hide)
}

// SetShouldHideCloseButton hides the close button of a full-screen view.
func (v *View) SetShouldHideCloseButton(hide bool) {
	v.opts.ShouldHideCloseButton = hide
	v.pres.SetShouldHideCloseButton(hide)
}

// SetConvertToWindow sets the mapping from the inline frame's coordinate
// space to the window's, used when presenting from the origin rect.
func (v *View) SetConvertToWindow(fn func(graphics.Rect) graphics.Rect) {
	p := v.pres.Options()
	p.ConvertToWindow = fn
	v.pres.SetOptions(p)
}

// SetFrame places the inline view. Ignored while full screen.
func (v *View) SetFrame(r graphics.Rect) { v.pres.SetFrame(r) }

// SetScreen applies a rotation or window resize.
func (v *View) SetScreen(s presentation.Screen) {
	if v.closed {
		return
	}
	v.pres.SetScreen(s)
	v.opts = v.opts.withClamped(v.pres.Options())
	if v.pres.IsFullScreen() && v.shouldPulse() && v.pulseCancel == nil {
		v.beginPulse()
	}
	v.Render()
}

// SetTitle sets the labels shown over a full-screen view.
func (v *View) SetTitle(title, details string) {
	v.title, v.details = title, details
	v.pres.RefreshChrome()
	v.Render()
}

// IsFullScreen reports whether the view holds the full-screen slot.
func (v *View) IsFullScreen() bool { return v.pres.IsFullScreen() }

// IsMinimized reports whether the full-screen view is minimized.
func (v *View) IsMinimized() bool { return v.pres.IsMinimized() }

// DidFailToPlay reports whether the current media failed to load or play.
func (v *View) DidFailToPlay() bool { return v.failed }

// HasVideo reports whether a video URL is set.
func (v *View) HasVideo() bool { return v.ref.HasVideo() }

// HasAudio reports whether an audio URL is set.
func (v *View) HasAudio() bool { return v.ref.HasAudio() }

// HasPlayableMedia reports whether a video or audio URL is set.
func (v *View) HasPlayableMedia() bool { return v.ref.HasPlayableMedia() }

// IsPlaying reports whether playback has been requested and not paused.
func (v *View) IsPlaying() bool {
	return v.session != nil && v.session.IsPlaying()
}

// IsLoading reports whether loaded media is paused waiting for data.
func (v *View) IsLoading() bool {
	return v.session != nil && v.session.IsLoadingOrBuffering()
}

// Present shows the view full screen through the shared queue.
func (v *View) Present(animated bool) {
	if v.closed {
		return
	}
	v.rt.Queue.Present(v.pres, animated)
}

// Dismiss takes the view out of full screen.
func (v *View) Dismiss(animated bool) {
	if v.closed {
		return
	}
	if v.rt.Queue.Current() == v.pres {
		v.rt.Queue.DismissCurrent(animated, nil)
		return
	}
	v.pres.Dismiss(animated, nil)
}

// CloseButtonTapped handles the close button.
func (v *View) CloseButtonTapped() {
	if v.closed {
		return
	}
	v.pres.Close()
}

// HandleTitleTap forwards a tap on the title label.
func (v *View) HandleTitleTap() {
	if !v.closed && v.title != "" {
		v.delegate.TitleTapped(v)
	}
}

// HandleDetailsTap forwards a tap on the details label.
func (v *View) HandleDetailsTap() {
	if !v.closed && v.details != "" {
		v.delegate.DetailsTapped(v)
	}
}

// HandleTap handles a tap that landed outside the scrub bar.
func (v *View) HandleTap() {
	if v.closed {
		return
	}
	switch v.pres.Tap() {
	case presentation.TapPresent:
		v.presentCopy()
	case presentation.TapTogglePlayback:
		v.togglePlayback()
	}
}

// HandlePan feeds a recognized pan into the swipe state machine.
func (v *View) HandlePan(ev presentation.PanEvent) {
	if v.closed {
		return
	}
	v.pres.HandlePan(ev)
}

// presentCopy shows a full-screen copy of an inline view. The copy owns
// its own player and closes itself once dismissed.
func (v *View) presentCopy() *View {
	opts := v.opts
	opts.ShouldDisplayFullscreen = false

	surface := v.rt.Overlay
	if surface == nil {
		surface = v.surface
	}
	c := New(v.rt, surface, opts)
	c.source = v
	c.delegate = v.delegate
	c.ref = v.ref
	c.still = v.still
	c.title, c.details = v.title, v.details
	if c.ref.Animation != nil && c.shouldShowGIF() {
		c.showAnimation(c.ref.Animation)
	}

	if v.opts.ShouldPresentFromOriginRect {
		origin := v.pres.Frame()
		p := c.pres.Options()
		p.OriginRect = &origin
		p.ConvertToWindow = v.pres.Options().ConvertToWindow
		c.pres.SetOptions(p)
	}
	v.log.Debug("presenting full-screen copy", "view", v.ID, "copy", c.ID)
	v.rt.Queue.Present(c.pres, true)
	return c
}

// refreshTrack collapses a scrub bar that should not be visible and redraws.
func (v *View) refreshTrack() {
	if v.trackHidden() {
		v.track.Collapse()
	}
	v.Render()
}

func (v *View) trackHidden() bool {
	switch {
	case !v.ref.HasPlayableMedia(), !v.opts.ShouldShowTrack:
		return true
	case v.opts.ShouldDisplayFullscreen && !v.pres.IsFullScreen():
		return true
	}
	return false
}

// Render draws the current state on the surface.
func (v *View) Render() {
	if v.closed {
		return
	}
	v.surface.Render(v.frame())
}

func (v *View) frame() Frame {
	ind, img := v.indicator()
	f := Frame{
		ID:             v.ID,
		FullScreen:     v.pres.IsFullScreen(),
		Appearance:     v.look,
		Image:          v.displayed(),
		AspectFit:      v.opts.VideoAspectFit,
		Indicator:      ind,
		IndicatorImage: img,
		Title:          v.title,
		Details:        v.details,
		Theme:          v.opts.ThemeColor,
	}
	if !v.trackHidden() {
		f.Track = &TrackFrame{
			Height:        v.track.Height(),
			ProgressWidth: v.track.ProgressWidth(),
			BufferWidth:   v.track.BufferWidth(),
			LabelAlpha:    v.track.LabelAlpha(),
			Elapsed:       v.track.ElapsedLabel(),
			Total:         v.track.TotalLabel(),
		}
	}
	return f
}

func (v *View) indicator() (Indicator, image.Image) {
	switch {
	case v.opts.ShouldHidePlayButton, !v.ref.HasPlayableMedia():
		return IndicatorNone, nil
	case v.failed:
		return IndicatorFail, v.opts.CustomFailButton
	case v.ref.HasAudio():
		return IndicatorMusic, v.opts.CustomMusicButton
	default:
		return IndicatorPlay, v.opts.CustomPlayButton
	}
}

func (v *View) displayed() image.Image {
	if img := v.gif.current(); img != nil {
		return img
	}
	return v.still
}

// ResetMedia stops playback and forgets every piece of media. Options and
// the delegate are kept.
func (v *View) ResetMedia() {
	v.closeSession()
	v.stopPulse()
	v.gif.stop()
	v.ref.Reset()
	v.still = nil
	v.failed = false
	v.longPressing = false
	v.touch = trackTouch{}
	v.track.Reset()
	v.track.Collapse()
	v.pres.SetIndicatorAlpha(0)
	v.pres.RefreshChrome()
	v.Render()
}

// Reset returns the view to a freshly created state so it can be reused,
// for example by a recycled list cell.
func (v *View) Reset() {
	v.delegate = NopDelegate{}
	v.title, v.details = "", ""
	v.SetOptions(DefaultOptions())
	v.ResetMedia()
}

// Close stops everything the view runs and unregisters it. A view that
// is on screen full screen is dismissed first.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	if v.rt.Queue.Current() == v.pres && v.pres.IsFullScreen() {
		v.rt.Queue.DismissCurrent(false, v.release)
		return
	}
	v.release()
}

func (v *View) release() {
	v.rt.Queue.Cancel(v.pres)
	v.closeSession()
	v.stopPulse()
	v.gif.stop()
	v.track.Dispose()
	v.pres.Dispose()
	v.rt.unregister(v)
	v.log.Debug("closed", "view", v.ID)
}

// content exposes the view to the presentation controller.
type content struct{ v *View }

func (c content) HasPlayableMedia() bool { return c.v.ref.HasPlayableMedia() }
func (c content) IsPlaying() bool        { return c.v.IsPlaying() }
func (c content) IsLoading() bool        { return c.v.IsLoading() }
func (c content) HasTitle() bool         { return c.v.title != "" }
func (c content) Presented()             { c.v.presented() }
func (c content) Dismissed()             { c.v.ResetMedia() }

func (c content) Apply(a presentation.Appearance) {
	v := c.v
	v.look = a
	if w := a.Frame.Width(); w != v.track.BarWidth() {
		v.track.SetBarWidth(w)
	}
	if v.session != nil && a.Volume != v.volume {
		v.volume = a.Volume
		v.session.SetVolume(a.Volume)
	}
	v.Render()
}
