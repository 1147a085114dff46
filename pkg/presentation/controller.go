// Package presentation implements the gesture-driven presentation state
// machine of a media view: inline, full-screen, minimized into a corner, and
// dismissed.
//
// A [Controller] owns the geometry and chrome alphas of one view and turns
// pan and tap gestures into continuous progress. On release it commits to
// the nearest resting state and animates there on an [animation.FrameLoop].
// A [Queue] makes sure only one controller occupies the full-screen slot.
//
// Everything here runs on the UI thread.
package presentation

import (
	"time"

	"github.com/go-drift/mediaview/pkg/animation"
	"github.com/go-drift/mediaview/pkg/graphics"
)

// Transition durations.
const (
	PresentDuration           = 250 * time.Millisecond
	PresentFromOriginDuration = 500 * time.Millisecond
	SettleDuration            = 250 * time.Millisecond
	DismissDuration           = 250 * time.Millisecond
)

type gesture int

const (
	gestureNone gesture = iota
	gestureMinimize
	gestureDismiss
	gestureHorizontal
)

// Controller is the presentation state machine for one view.
//
// Set the callback fields before the first gesture.
type Controller struct {
	// OnSwipeBegan runs when a swipe starts moving the view.
	OnSwipeBegan func()
	// OnSwipeEnded runs after a swipe has settled without dismissing.
	OnSwipeEnded func()

	loop     *animation.FrameLoop
	anim     *animation.Controller
	content  Content
	delegate Delegate
	queue    *Queue

	screen Screen
	opts   Options

	fullScreen  bool
	minimized   bool
	interactive bool
	dismissing  bool
	gesture     gesture
	translation graphics.Offset

	origin    *graphics.Rect
	look      Appearance
	tween     animation.Tween[Appearance]
	animating bool

	// finishPresent completes a present that is still animating.
	finishPresent func()
}

// NewController returns an inline controller for screen.
func NewController(loop *animation.FrameLoop, screen Screen, opts Options) *Controller {
	c := &Controller{
		loop:        loop,
		anim:        animation.NewController(loop),
		content:     nopContent{},
		delegate:    Nop{},
		screen:      screen,
		opts:        opts.Clamp(screen),
		interactive: true,
		look:        Appearance{Frame: screen.Rect(), Alpha: 1, Volume: 1},
	}
	c.anim.AddListener(func(t float64) {
		if c.animating {
			c.look = c.tween.Evaluate(t)
			c.content.Apply(c.look)
		}
	})
	return c
}

// SetContent attaches the media side. Nil detaches it.
func (c *Controller) SetContent(content Content) {
	if content == nil {
		content = nopContent{}
	}
	c.content = content
}

// SetDelegate installs the transition observer. Nil installs Nop.
func (c *Controller) SetDelegate(d Delegate) {
	if d == nil {
		d = Nop{}
	}
	c.delegate = d
}

// Options returns the clamped options in effect.
func (c *Controller) Options() Options { return c.opts }

// SetOptions replaces the options, clamping them to the current screen.
func (c *Controller) SetOptions(opts Options) {
	c.opts = opts.Clamp(c.screen)
	c.refreshChrome()
	c.apply()
}

// SetSwipeMode changes what a swipe does.
func (c *Controller) SetSwipeMode(m SwipeMode) {
	o := c.opts
	o.SwipeMode = m
	c.SetOptions(o)
}

// SetMinimizedAspectRatio sets height over width of the minimized view.
func (c *Controller) SetMinimizedAspectRatio(r float64) {
	o := c.opts
	o.MinimizedAspectRatio = r
	c.SetOptions(o)
}

// SetMinimizedWidthRatio sets the share of the screen width the minimized view spans.
func (c *Controller) SetMinimizedWidthRatio(r float64) {
	o := c.opts
	o.MinimizedWidthRatio = r
	c.SetOptions(o)
}

// SetTopBuffer sets the chrome offset below the status bar.
func (c *Controller) SetTopBuffer(v float64) {
	o := c.opts
	o.TopBuffer = v
	c.SetOptions(o)
}

// SetBottomBuffer sets the space kept below the minimized view.
func (c *Controller) SetBottomBuffer(v float64) {
	o := c.opts
	o.BottomBuffer = v
	c.SetOptions(o)
}

// SetShouldHidePlayButton hides the indicator regardless of playback state.
func (c *Controller) SetShouldHidePlayButton(hide bool) {
	c.opts.ShouldHidePlayButton = hide
	if hide {
		c.look.IndicatorAlpha = 0
	}
	c.apply()
}

// SetShouldHideCloseButton hides the close button while swipes are enabled.
func (c *Controller) SetShouldHideCloseButton(hide bool) {
	c.opts.ShouldHideCloseButton = hide
	c.look.CloseAlpha = c.closeAlpha(c.OffsetPercentage())
	c.apply()
}

// Screen returns the current screen.
func (c *Controller) Screen() Screen { return c.screen }

// Appearance returns what to draw this frame.
func (c *Controller) Appearance() Appearance { return c.look }

// Frame returns the current frame in window coordinates.
func (c *Controller) Frame() graphics.Rect { return c.look.Frame }

// SetFrame sets the inline frame. It is ignored while full-screen.
func (c *Controller) SetFrame(r graphics.Rect) {
	if c.fullScreen {
		return
	}
	c.look.Frame = r
	c.apply()
}

// IsFullScreen reports whether the view occupies the full-screen slot.
func (c *Controller) IsFullScreen() bool { return c.fullScreen }

// IsMinimized reports whether the view rests in the corner.
func (c *Controller) IsMinimized() bool { return c.minimized }

// IsInteractive reports whether gestures are accepted.
func (c *Controller) IsInteractive() bool { return c.interactive }

// SwipeEnabled reports whether swipes move the view.
func (c *Controller) SwipeEnabled() bool {
	return c.fullScreen && c.screen.Portrait() && c.opts.SwipeMode.MovesWhenSwipe()
}

// State reports the current phase.
func (c *Controller) State() State {
	switch {
	case !c.fullScreen:
		return State{Phase: PhaseInline}
	case c.dismissing:
		return State{Phase: PhaseDismissing, Progress: c.anim.Value}
	case c.gesture == gestureDismiss:
		return State{Phase: PhaseDismissing, Progress: c.OffsetPercentage()}
	case c.gesture == gestureHorizontal:
		return State{Phase: PhaseDismissing, Progress: c.horizontalRatio()}
	case c.gesture == gestureMinimize:
		return State{Phase: PhaseMinimizing, Progress: c.OffsetPercentage()}
	case c.minimized:
		return State{Phase: PhaseMinimized}
	default:
		return State{Phase: PhaseFullScreen}
	}
}

// MinimizedWidth is the width of the minimized view.
func (c *Controller) MinimizedWidth() float64 {
	return c.screen.Width * c.opts.MinimizedWidthRatio
}

// MinimizedHeight is the height of the minimized view.
func (c *Controller) MinimizedHeight() float64 {
	return c.MinimizedWidth() * c.opts.MinimizedAspectRatio
}

// MaxOffsetY is the top edge of the minimized view.
func (c *Controller) MaxOffsetY() float64 {
	return c.screen.Height - c.MinimizedHeight() - c.opts.BottomBuffer - edgeInset
}

// MaxOffsetX is the left edge of the minimized view.
func (c *Controller) MaxOffsetX() float64 {
	return c.screen.Width - c.MinimizedWidth() - edgeInset
}

// MinimizedFrame is where a minimized view rests.
func (c *Controller) MinimizedFrame() graphics.Rect {
	return graphics.RectFromLTWH(c.MaxOffsetX(), c.MaxOffsetY(), c.MinimizedWidth(), c.MinimizedHeight())
}

// OffsetPercentage is swipe progress in [0, 1] for the current swipe mode.
func (c *Controller) OffsetPercentage() float64 {
	var p float64
	switch c.opts.SwipeMode {
	case SwipeDismiss:
		if c.screen.Height > 0 {
			p = c.look.Frame.Top / c.screen.Height
		}
	case SwipeMinimize:
		if maxY := c.MaxOffsetY(); maxY > 0 {
			p = c.look.Frame.Top / maxY
		}
	}
	return graphics.Clamp01(p)
}

func (c *Controller) horizontalRatio() float64 {
	span := c.MinimizedWidth() - edgeInset
	if span <= 0 {
		return 1
	}
	return (c.look.Frame.Left - c.MaxOffsetX()) / span
}

func (c *Controller) apply() {
	c.content.Apply(c.look)
}

// Present animates into the full-screen slot. Queue.Present calls it; hosts
// should go through the queue.
func (c *Controller) Present(animated bool, done func()) {
	c.delegate.WillPresent()
	c.fullScreen = true
	c.minimized = false
	c.dismissing = false
	c.gesture = gestureNone

	if c.opts.OriginRect != nil && c.origin == nil {
		r := *c.opts.OriginRect
		if c.opts.ConvertToWindow != nil {
			r = c.opts.ConvertToWindow(r)
		}
		c.origin = &r
	}

	start := c.look
	start.BorderAlpha = 0
	start.Volume = 1
	d := PresentDuration
	if c.origin != nil {
		start.Frame = *c.origin
		start.Alpha = 1
		d = PresentFromOriginDuration
	} else {
		start.Frame = c.screen.Rect()
		start.Alpha = 0
	}
	start.CloseAlpha = c.closeAlpha(0)
	start.OverlayAlpha = c.overlayAlpha()
	c.look = start
	c.apply()

	if !animated {
		d = 0
	}
	c.interactive = false
	c.finishPresent = func() {
		c.finishPresent = nil
		c.interactive = true
		c.delegate.DidPresent()
		c.content.Presented()
		if done != nil {
			done()
		}
	}
	c.animate(c.fullScreenLook(), d, animation.EaseInOut, func() {
		if finish := c.finishPresent; finish != nil {
			finish()
		}
	})
}

// Dismiss animates out of the full-screen slot and resets the content.
// Queue.DismissCurrent calls it.
func (c *Controller) Dismiss(animated bool, done func()) {
	if !c.fullScreen {
		if done != nil {
			done()
		}
		return
	}
	// Retargeting the animation drops its completion, so a present that
	// has not settled yet reports itself first.
	if finish := c.finishPresent; finish != nil {
		finish()
	}
	c.delegate.WillDismiss()
	c.interactive = false
	c.dismissing = true

	target := c.look
	switch {
	case c.minimized:
		target.Frame = c.look.Frame.WithOrigin(c.screen.Width, c.look.Frame.Top)
		target.Alpha = 0
	case c.opts.SwipeMode == SwipeDismiss:
		target.Frame = graphics.RectFromLTWH(0, c.screen.Height, c.screen.Width, c.screen.Height)
	default:
		target.Alpha = 0
	}

	d := DismissDuration
	if !animated {
		d = 0
	}
	c.animate(target, d, animation.EaseInOut, func() {
		c.fullScreen = false
		c.minimized = false
		c.dismissing = false
		c.gesture = gestureNone
		c.interactive = true
		c.look.CloseAlpha = 0
		c.look.BorderAlpha = 0
		c.apply()
		c.content.Dismissed()
		c.delegate.DidDismiss()
		if done != nil {
			done()
		}
	})
}

// requestDismiss dismisses through the queue when this controller is its
// current occupant.
func (c *Controller) requestDismiss(done func()) {
	if c.queue != nil && c.queue.Current() == c {
		c.queue.DismissCurrent(true, done)
		return
	}
	c.Dismiss(true, done)
}

// Close dismisses through the queue, as the close button does. A view that
// is not full-screen just hides the button.
func (c *Controller) Close() {
	if !c.fullScreen {
		c.look.CloseAlpha = 0
		c.apply()
		return
	}
	c.requestDismiss(nil)
}

// Tap handles a tap on the view.
func (c *Controller) Tap() TapOutcome {
	if !c.interactive {
		return TapIgnored
	}
	if c.minimized {
		c.interactive = false
		c.delegate.WillEndMinimizing(false)
		c.animate(c.fullScreenLook(), SettleDuration, animation.Linear, func() {
			c.minimized = false
			c.interactive = true
			c.delegate.DidEndMinimizing(false)
		})
		return TapRestored
	}
	if c.opts.ShouldDisplayFullscreen && !c.fullScreen {
		return TapPresent
	}
	return TapTogglePlayback
}

// HandlePan feeds one pan event into the state machine. Events are ignored
// unless swiping is enabled and no commit animation is running.
func (c *Controller) HandlePan(ev PanEvent) {
	if !c.interactive || !c.SwipeEnabled() {
		return
	}
	switch ev.Phase {
	case PanBegan:
		c.anim.Stop()
		c.animating = false
		c.translation = graphics.Offset{}
		c.gesture = gestureNone
		if c.OnSwipeBegan != nil {
			c.OnSwipeBegan()
		}
	case PanChanged:
		c.drag(ev.Translation, ev.Velocity)
	case PanEnded, PanCancelled, PanFailed:
		c.release(ev.Velocity)
	}
}

func (c *Controller) drag(translation, velocity graphics.Offset) {
	defer func() { c.translation = translation }()

	maxX := c.MaxOffsetX()
	if c.minimized && graphics.FloatEqual(c.look.Frame.Top, c.MaxOffsetY()) &&
		(c.look.Frame.Left > maxX || (velocity.Y >= 0 && velocity.X > 0)) {
		c.dragHorizontal(translation)
		return
	}

	top := c.look.Frame.Top + translation.Y - c.translation.Y
	switch c.opts.SwipeMode {
	case SwipeMinimize:
		c.gesture = gestureMinimize
		c.setMinimizedOffset(graphics.Clamp(top, 0, c.MaxOffsetY()))
		c.apply()
		c.delegate.OffsetChanged(c.OffsetPercentage())
	case SwipeDismiss:
		c.gesture = gestureDismiss
		c.delegate.WillChangeDismissing()
		top = graphics.Clamp(top, 0, c.screen.Height)
		c.look.BorderAlpha = 0
		c.look.Frame = graphics.RectFromLTWH(0, top, c.screen.Width, c.screen.Height)
		c.look.Volume = 1 - c.OffsetPercentage()
		c.apply()
		c.delegate.DidChangeDismissing()
		c.delegate.OffsetChanged(c.OffsetPercentage())
	}
}

func (c *Controller) setMinimizedOffset(top float64) {
	c.delegate.WillChangeMinimization()
	c.look.Frame = c.look.Frame.WithOrigin(c.look.Frame.Left, top)
	p := c.OffsetPercentage()

	w, h := c.screen.Width, c.screen.Height
	fw := w - p*(w-c.MinimizedWidth())
	fh := h - p*(h-c.MinimizedHeight())
	c.look.Frame = graphics.RectFromLTWH(w-fw-p*edgeInset, top, fw, fh)
	c.look.BorderAlpha = p
	c.look.IndicatorAlpha = c.indicatorAlpha(1 - p)
	c.look.CloseAlpha = c.closeAlpha(p)
	if c.playingOrLoading() || !c.content.HasTitle() {
		c.look.OverlayAlpha = 0
	} else {
		c.look.OverlayAlpha = 1 - p
	}
	c.delegate.DidChangeMinimization()
}

func (c *Controller) dragHorizontal(translation graphics.Offset) {
	c.gesture = gestureHorizontal
	maxX := c.MaxOffsetX()
	left := graphics.Clamp(c.look.Frame.Left+translation.X-c.translation.X, maxX, c.screen.Width)
	c.look.Frame = c.look.Frame.WithOrigin(left, c.MaxOffsetY())

	ratio := c.horizontalRatio()
	c.look.Alpha = graphics.Clamp01(1 - ratio)
	c.look.Volume = graphics.Clamp01(1 - ratio)
	c.apply()

	if ratio >= 1 {
		c.interactive = false
		c.requestDismiss(nil)
	}
}

func (c *Controller) release(velocity graphics.Offset) {
	switch c.opts.SwipeMode {
	case SwipeDismiss:
		c.interactive = false
		p := c.OffsetPercentage()
		dismiss := ResolveDismiss(p, velocity.Y)
		c.delegate.WillEndDismissing(dismiss)
		if dismiss {
			c.requestDismiss(func() { c.delegate.DidEndDismissing(true) })
			return
		}
		target := c.look
		target.Frame = c.screen.Rect()
		target.Volume = 1
		c.animate(target, SettleDuration, animation.EaseInOut, func() {
			c.afterSwipe()
			c.delegate.DidEndDismissing(false)
		})

	case SwipeMinimize:
		c.interactive = false
		if !reached(c.look.Alpha, DismissAlphaThreshold) {
			c.requestDismiss(nil)
			return
		}
		minimize := ResolveMinimize(c.OffsetPercentage(), c.minimized)
		c.delegate.WillEndMinimizing(minimize)
		target := c.fullScreenLook()
		if minimize {
			target = c.minimizedLook()
		}
		c.animate(target, SettleDuration, animation.Linear, func() {
			c.minimized = minimize
			c.afterSwipe()
			c.delegate.DidEndMinimizing(minimize)
		})
	}
}

func (c *Controller) afterSwipe() {
	c.gesture = gestureNone
	c.interactive = true
	if c.OnSwipeEnded != nil {
		c.OnSwipeEnded()
	}
}

// SetScreen applies an orientation or window size change. A minimized view
// re-anchors to the new corner in portrait and expands in landscape. A
// running dismissal finishes on its original path.
func (c *Controller) SetScreen(s Screen) {
	c.screen = s
	c.opts = c.opts.Clamp(s)
	if !c.fullScreen || c.dismissing {
		return
	}
	if c.animating {
		c.anim.Stop()
		c.animating = false
	}
	c.gesture = gestureNone
	c.interactive = true

	if c.minimized && s.Portrait() {
		c.look = c.minimizedLook()
		c.apply()
		return
	}
	if c.minimized {
		c.delegate.WillEndMinimizing(false)
		c.minimized = false
		c.look = c.fullScreenLook()
		c.apply()
		c.delegate.DidEndMinimizing(false)
		return
	}
	c.look = c.fullScreenLook()
	c.apply()
}

// SetIndicatorAlpha sets the play indicator alpha directly, as the loading
// pulse does. ShouldHidePlayButton still forces it to zero.
func (c *Controller) SetIndicatorAlpha(a float64) {
	if c.opts.ShouldHidePlayButton {
		a = 0
	}
	c.look.IndicatorAlpha = graphics.Clamp01(a)
	c.apply()
}

// ShowIndicator applies a to the play indicator only when it should be
// visible at all: playable media that is paused or still loading.
func (c *Controller) ShowIndicator(a float64) {
	c.look.IndicatorAlpha = c.indicatorAlpha(a)
	c.apply()
}

// RefreshChrome recomputes the overlay and close button for the current
// playback state.
func (c *Controller) RefreshChrome() {
	c.refreshChrome()
	c.apply()
}

func (c *Controller) refreshChrome() {
	c.look.OverlayAlpha = c.overlayAlpha()
	c.look.CloseAlpha = c.closeAlpha(c.OffsetPercentage())
}

// SetVolume sets the volume reported in Appearance.
func (c *Controller) SetVolume(v float64) {
	c.look.Volume = graphics.Clamp01(v)
	c.apply()
}

// Dispose stops any running animation.
func (c *Controller) Dispose() {
	c.animating = false
	c.anim.Dispose()
}

func (c *Controller) playingOrLoading() bool {
	return c.content.IsPlaying() || c.content.IsLoading()
}

func (c *Controller) indicatorAlpha(a float64) float64 {
	if c.opts.ShouldHidePlayButton {
		return 0
	}
	if c.content.HasPlayableMedia() && (!c.content.IsPlaying() || c.content.IsLoading()) {
		return graphics.Clamp01(a)
	}
	return c.look.IndicatorAlpha
}

func (c *Controller) closeAlpha(p float64) float64 {
	if !c.fullScreen {
		return 0
	}
	if c.opts.SwipeMode.MovesWhenSwipe() && c.screen.Portrait() {
		if c.opts.ShouldHideCloseButton {
			return 0
		}
		return 1 - p
	}
	return 1
}

func (c *Controller) overlayAlpha() float64 {
	if c.fullScreen && c.content.HasTitle() && !c.playingOrLoading() {
		return 1
	}
	return 0
}

func (c *Controller) fullScreenLook() Appearance {
	return Appearance{
		Frame:          c.screen.Rect(),
		Alpha:          1,
		BorderAlpha:    0,
		IndicatorAlpha: c.indicatorAlpha(1),
		OverlayAlpha:   c.overlayAlpha(),
		CloseAlpha:     c.closeAlpha(0),
		Volume:         1,
	}
}

func (c *Controller) minimizedLook() Appearance {
	return Appearance{
		Frame:          c.MinimizedFrame(),
		Alpha:          1,
		BorderAlpha:    1,
		IndicatorAlpha: c.indicatorAlpha(0),
		OverlayAlpha:   0,
		CloseAlpha:     c.closeAlpha(1),
		Volume:         1,
	}
}

func (c *Controller) animate(to Appearance, d time.Duration, curve func(float64) float64, done func()) {
	c.animating = false
	c.anim.Set(0)
	c.tween = TweenAppearance(c.look, to)
	c.animating = true
	c.anim.AnimateTo(1, d, curve, func() {
		c.animating = false
		c.look = to
		if done != nil {
			done()
		}
	})
}
