package presentation_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mediaview/pkg/animation"
	"github.com/go-drift/mediaview/pkg/graphics"
	"github.com/go-drift/mediaview/pkg/presentation"
	mediatest "github.com/go-drift/mediaview/pkg/testing"
)

var portrait = presentation.Screen{Width: 400, Height: 800}

type harness struct {
	clk      *mediatest.FakeClock
	loop     *animation.FrameLoop
	c        *presentation.Controller
	delegate *mediatest.RecordingDelegate
	content  *mediatest.FakeContent
}

func newHarness(t *testing.T, mode presentation.SwipeMode) *harness {
	t.Helper()
	clk := mediatest.NewFakeClock()
	loop := animation.NewFrameLoop(clk)
	opts := presentation.DefaultOptions()
	opts.SwipeMode = mode
	c := presentation.NewController(loop, portrait, opts)
	h := &harness{
		clk:      clk,
		loop:     loop,
		c:        c,
		delegate: &mediatest.RecordingDelegate{},
		content:  &mediatest.FakeContent{Playable: true},
	}
	c.SetDelegate(h.delegate)
	c.SetContent(h.content)
	return h
}

// pump advances the clock in 100ms frames.
func (h *harness) pump(frames int) {
	for range frames {
		h.clk.Advance(100 * time.Millisecond)
		h.loop.Step()
	}
}

func (h *harness) present() {
	h.c.Present(false, nil)
	h.delegate.Reset()
}

func (h *harness) minimize(t *testing.T) {
	t.Helper()
	mediatest.Swipe(h.c, 0, h.c.MaxOffsetY(), 4, graphics.Offset{Y: 100})
	h.pump(3)
	require.True(t, h.c.IsMinimized())
	h.delegate.Reset()
}

func TestResolveMinimize(t *testing.T) {
	tests := []struct {
		p         float64
		minimized bool
		want      bool
	}{
		{0.39, false, false},
		{0.40, false, true},
		{0.39999999999999997, false, true},
		{0.74, true, false},
		{0.7499999999999999, true, true},
		{0.75, true, true},
		{1, true, true},
		{0, false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, presentation.ResolveMinimize(tt.p, tt.minimized), "p=%v minimized=%v", tt.p, tt.minimized)
	}
}

func TestResolveDismiss(t *testing.T) {
	tests := []struct {
		p, vy float64
		want  bool
	}{
		{0.34, 250, false},
		{0.30, 350, true},
		{0.36, 0, true},
		{0.36, -1000, true},
		{0.35, 0, true},
		{0.34999999999999997, 0, true},
		{0.25, 1000, false},
		{0.25000000000000006, 1000, false},
		{0.10, 5000, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, presentation.ResolveDismiss(tt.p, tt.vy), "p=%v vy=%v", tt.p, tt.vy)
	}
}

func TestTweenAppearance(t *testing.T) {
	begin := presentation.Appearance{Frame: portrait.Rect(), Alpha: 1, Volume: 1, IndicatorAlpha: 1}
	end := presentation.Appearance{Frame: graphics.RectFromLTWH(200, 600, 200, 112.5), BorderAlpha: 1}
	tw := presentation.TweenAppearance(begin, end)

	assert.Equal(t, begin, tw.Evaluate(0))
	assert.Equal(t, end, tw.Evaluate(1))

	mid := tw.Evaluate(0.5)
	assert.True(t, mid.Frame.ApproxEqual(graphics.RectFromLTWH(100, 300, 300, 456.25)), "frame %+v", mid.Frame)
	assert.InDelta(t, 0.5, mid.Alpha, 1e-9)
	assert.InDelta(t, 0.5, mid.Volume, 1e-9)
	assert.InDelta(t, 0.5, mid.IndicatorAlpha, 1e-9)
	assert.InDelta(t, 0.5, mid.BorderAlpha, 1e-9)
	assert.Zero(t, mid.CloseAlpha)
}

func TestGeometry(t *testing.T) {
	h := newHarness(t, presentation.SwipeMinimize)
	assert.InDelta(t, 200, h.c.MinimizedWidth(), 1e-9)
	assert.InDelta(t, 112.5, h.c.MinimizedHeight(), 1e-9)
	assert.InDelta(t, 675.5, h.c.MaxOffsetY(), 1e-9)
	assert.InDelta(t, 188, h.c.MaxOffsetX(), 1e-9)
	assert.True(t, h.c.MinimizedFrame().ApproxEqual(graphics.RectFromLTWH(188, 675.5, 200, 112.5)))
}

func TestOptionsClamp(t *testing.T) {
	opts := presentation.Options{
		MinimizedAspectRatio: 5,
		MinimizedWidthRatio:  2,
		TopBuffer:            -3,
		BottomBuffer:         500,
	}.Clamp(portrait)

	assert.InDelta(t, graphics.PortraitRatio, opts.MinimizedAspectRatio, 1e-9)
	assert.InDelta(t, (400.0-24)/400, opts.MinimizedWidthRatio, 1e-9)
	assert.Zero(t, opts.TopBuffer)
	assert.InDelta(t, 120, opts.BottomBuffer, 1e-9)

	opts = presentation.Options{MinimizedAspectRatio: 0.1, MinimizedWidthRatio: 0.1, TopBuffer: 100}.Clamp(portrait)
	assert.InDelta(t, graphics.LandscapeRatio, opts.MinimizedAspectRatio, 1e-9)
	assert.InDelta(t, 0.25, opts.MinimizedWidthRatio, 1e-9)
	assert.InDelta(t, 64, opts.TopBuffer, 1e-9)
}

func TestPresentFadesIn(t *testing.T) {
	h := newHarness(t, presentation.SwipeNone)
	done := false
	h.c.Present(true, func() { done = true })

	assert.True(t, h.c.IsFullScreen())
	assert.Equal(t, []string{"willPresent"}, h.delegate.Events)
	assert.Zero(t, h.content.Last.Alpha)
	assert.False(t, h.c.IsInteractive())

	h.pump(1)
	assert.False(t, done)
	h.pump(2)
	assert.True(t, done)
	assert.Equal(t, []string{"willPresent", "didPresent"}, h.delegate.Events)
	assert.Equal(t, 1, h.content.Presents)
	assert.InDelta(t, 1, h.content.Last.Alpha, 1e-9)
	assert.True(t, h.content.Last.Frame.ApproxEqual(portrait.Rect()))
	assert.Equal(t, presentation.PhaseFullScreen, h.c.State().Phase)
}

func TestPresentFromOrigin(t *testing.T) {
	h := newHarness(t, presentation.SwipeNone)
	origin := graphics.RectFromLTWH(10, 20, 100, 50)
	conversions := 0
	opts := h.c.Options()
	opts.OriginRect = &origin
	opts.ConvertToWindow = func(r graphics.Rect) graphics.Rect {
		conversions++
		return r.Translate(0, 100)
	}
	h.c.SetOptions(opts)

	h.c.Present(true, nil)
	assert.True(t, h.content.Last.Frame.ApproxEqual(graphics.RectFromLTWH(10, 120, 100, 50)))
	assert.InDelta(t, 1, h.content.Last.Alpha, 1e-9)

	h.pump(4)
	assert.False(t, h.delegate.Has("didPresent"), "origin presentations take 0.5s")
	h.pump(1)
	assert.True(t, h.delegate.Has("didPresent"))

	h.c.Dismiss(false, nil)
	h.c.Present(false, nil)
	assert.Equal(t, 1, conversions, "the converted origin is cached")
}

func TestSwipeToMinimize(t *testing.T) {
	h := newHarness(t, presentation.SwipeMinimize)
	h.present()
	maxY := h.c.MaxOffsetY()

	mediatest.SwipeWithoutRelease(h.c, 0, maxY/2, 2, graphics.Offset{Y: 200})
	state := h.c.State()
	assert.Equal(t, presentation.PhaseMinimizing, state.Phase)
	assert.InDelta(t, 0.5, state.Progress, 1e-9)

	look := h.content.Last
	assert.InDelta(t, 300, look.Frame.Width(), 1e-9)
	assert.InDelta(t, 800-0.5*(800-112.5), look.Frame.Height(), 1e-9)
	assert.InDelta(t, 400-300-6, look.Frame.Left, 1e-9)
	assert.InDelta(t, 0.5, look.BorderAlpha, 1e-9)
	assert.InDelta(t, 0.5, look.IndicatorAlpha, 1e-9)
	assert.InDelta(t, 0.5, look.CloseAlpha, 1e-9)
	assert.True(t, h.delegate.Has("willChangeMinimization"))
	assert.True(t, h.delegate.Has("didChangeMinimization"))
	require.NotEmpty(t, h.delegate.Offsets)
	assert.InDelta(t, 0.5, h.delegate.Offsets[len(h.delegate.Offsets)-1], 1e-9)

	h.c.HandlePan(presentation.PanEvent{Phase: presentation.PanEnded, Translation: graphics.Offset{Y: maxY / 2}})
	assert.Equal(t, []string{"willEndMinimizing(true)"}, h.delegate.Filter())
	h.pump(3)

	assert.True(t, h.c.IsMinimized())
	assert.True(t, h.c.IsFullScreen())
	assert.Equal(t, presentation.PhaseMinimized, h.c.State().Phase)
	assert.True(t, h.content.Last.Frame.ApproxEqual(h.c.MinimizedFrame()))
	assert.InDelta(t, 1, h.content.Last.BorderAlpha, 1e-9)
	assert.Zero(t, h.content.Last.IndicatorAlpha)
	assert.Zero(t, h.content.Last.CloseAlpha)
	assert.Equal(t, []string{"willEndMinimizing(true)", "didEndMinimizing(true)"}, h.delegate.Filter())
}

func TestMinimizeReleaseThresholds(t *testing.T) {
	tests := []struct {
		name  string
		p     float64
		start bool
		want  bool
	}{
		{"short swipe snaps back", 0.38, false, false},
		{"long swipe minimizes", 0.42, false, true},
		{"minimized dragged up expands", 0.73, true, false},
		{"minimized barely moved stays", 0.77, true, true},
		{"just short of threshold snaps back", 0.39, false, false},
		{"swipe to threshold minimizes", 0.40, false, true},
		{"minimized just above threshold expands", 0.74, true, false},
		{"minimized at threshold stays", 0.75, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, presentation.SwipeMinimize)
			h.present()
			if tt.start {
				h.minimize(t)
			}
			maxY := h.c.MaxOffsetY()
			top := h.c.Frame().Top
			mediatest.Swipe(h.c, 0, tt.p*maxY-top, 3, graphics.Offset{Y: -10})
			h.pump(3)

			assert.Equal(t, tt.want, h.c.IsMinimized())
			assert.True(t, h.c.IsFullScreen())
			assert.True(t, h.c.IsInteractive())
			want := portrait.Rect()
			if tt.want {
				want = h.c.MinimizedFrame()
			}
			assert.True(t, h.content.Last.Frame.ApproxEqual(want), "frame %+v", h.content.Last.Frame)
		})
	}
}

func TestOffsetPercentageIsClamped(t *testing.T) {
	for _, mode := range []presentation.SwipeMode{presentation.SwipeMinimize, presentation.SwipeDismiss} {
		t.Run(mode.String(), func(t *testing.T) {
			h := newHarness(t, mode)
			h.present()

			mediatest.SwipeWithoutRelease(h.c, 0, 1e6, 1, graphics.Offset{Y: 10})
			assert.InDelta(t, 1, h.c.OffsetPercentage(), 1e-9)

			h.c.HandlePan(presentation.PanEvent{Phase: presentation.PanChanged, Translation: graphics.Offset{Y: -1e7}})
			assert.InDelta(t, 0, h.c.OffsetPercentage(), 1e-9)
			for _, p := range h.delegate.Offsets {
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 1.0)
			}
		})
	}
}

func TestSwipeToDismiss(t *testing.T) {
	tests := []struct {
		name    string
		p, vy   float64
		dismiss bool
	}{
		{"slow short swipe snaps back", 0.34, 250, false},
		{"fast short swipe dismisses", 0.30, 350, true},
		{"long swipe dismisses", 0.36, 0, true},
		{"just short of threshold snaps back", 0.34, 0, false},
		{"swipe to threshold dismisses", 0.35, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, presentation.SwipeDismiss)
			q := presentation.NewQueue(nil, nil)
			q.Present(h.c, false)
			h.delegate.Reset()

			mediatest.SwipeWithoutRelease(h.c, 0, tt.p*portrait.Height, 2, graphics.Offset{Y: tt.vy})
			assert.Equal(t, presentation.PhaseDismissing, h.c.State().Phase)
			assert.InDelta(t, 1-tt.p, h.content.Last.Volume, 1e-9)
			assert.InDelta(t, portrait.Width, h.content.Last.Frame.Width(), 1e-9)
			assert.True(t, h.delegate.Has("willChangeDismissing"))

			h.c.HandlePan(presentation.PanEvent{Phase: presentation.PanEnded, Velocity: graphics.Offset{Y: tt.vy}})
			h.pump(3)

			if tt.dismiss {
				assert.Equal(t, []string{"willEndDismissing(true)", "willDismiss", "didDismiss", "didEndDismissing(true)"}, h.delegate.Filter())
				assert.False(t, h.c.IsFullScreen())
				assert.Nil(t, q.Current())
				assert.Equal(t, 1, h.content.Dismisses)
				assert.InDelta(t, portrait.Height, h.content.Last.Frame.Top, 1e-9)
			} else {
				assert.Equal(t, []string{"willEndDismissing(false)", "didEndDismissing(false)"}, h.delegate.Filter())
				assert.True(t, h.c.IsFullScreen())
				assert.InDelta(t, 1, h.content.Last.Volume, 1e-9)
				assert.True(t, h.content.Last.Frame.ApproxEqual(portrait.Rect()))
				assert.Same(t, h.c, q.Current())
			}
		})
	}
}

func TestCancelledPanCommitsLikeEnded(t *testing.T) {
	for _, phase := range []presentation.PanPhase{presentation.PanCancelled, presentation.PanFailed} {
		h := newHarness(t, presentation.SwipeMinimize)
		h.present()
		mediatest.SwipeWithoutRelease(h.c, 0, h.c.MaxOffsetY()*0.6, 2, graphics.Offset{})
		h.c.HandlePan(presentation.PanEvent{Phase: phase})
		h.pump(3)
		assert.True(t, h.c.IsMinimized())
		assert.Equal(t, presentation.PhaseMinimized, h.c.State().Phase)
	}
}

func TestMinimizedHorizontalDismissal(t *testing.T) {
	t.Run("short drag snaps back", func(t *testing.T) {
		h := newHarness(t, presentation.SwipeMinimize)
		h.present()
		h.minimize(t)

		mediatest.SwipeWithoutRelease(h.c, 50, 0, 2, graphics.Offset{X: 100})
		assert.Equal(t, presentation.PhaseDismissing, h.c.State().Phase)
		assert.InDelta(t, 188+50, h.content.Last.Frame.Left, 1e-9)
		assert.InDelta(t, h.c.MaxOffsetY(), h.content.Last.Frame.Top, 1e-9)
		assert.InDelta(t, 1-50.0/188, h.content.Last.Alpha, 1e-9)
		assert.InDelta(t, 1-50.0/188, h.content.Last.Volume, 1e-9)

		h.c.HandlePan(presentation.PanEvent{Phase: presentation.PanEnded, Velocity: graphics.Offset{X: 100}})
		h.pump(3)
		assert.True(t, h.c.IsMinimized())
		assert.True(t, h.content.Last.Frame.ApproxEqual(h.c.MinimizedFrame()))
		assert.InDelta(t, 1, h.content.Last.Alpha, 1e-9)
	})

	t.Run("faded drag dismisses on release", func(t *testing.T) {
		h := newHarness(t, presentation.SwipeMinimize)
		h.present()
		h.minimize(t)

		mediatest.Swipe(h.c, 120, 0, 3, graphics.Offset{X: 100})
		h.pump(3)
		assert.False(t, h.c.IsFullScreen())
		assert.False(t, h.c.IsMinimized())
		assert.True(t, h.delegate.Has("didDismiss"))
	})

	t.Run("full width commits immediately", func(t *testing.T) {
		h := newHarness(t, presentation.SwipeMinimize)
		h.present()
		h.minimize(t)

		mediatest.SwipeWithoutRelease(h.c, 188, 0, 2, graphics.Offset{X: 100})
		assert.True(t, h.delegate.Has("willDismiss"))
		assert.False(t, h.c.IsInteractive())

		h.c.HandlePan(presentation.PanEvent{Phase: presentation.PanChanged, Translation: graphics.Offset{X: -300}})
		h.pump(3)
		assert.False(t, h.c.IsFullScreen())
	})

	t.Run("upward drag stays vertical", func(t *testing.T) {
		h := newHarness(t, presentation.SwipeMinimize)
		h.present()
		h.minimize(t)

		mediatest.SwipeWithoutRelease(h.c, 20, -100, 2, graphics.Offset{X: 50, Y: -300})
		assert.Equal(t, presentation.PhaseMinimizing, h.c.State().Phase)
		assert.Less(t, h.content.Last.Frame.Top, h.c.MaxOffsetY())
	})
}

func TestTapWhileMinimizedRestores(t *testing.T) {
	h := newHarness(t, presentation.SwipeMinimize)
	h.present()
	h.minimize(t)

	assert.Equal(t, presentation.TapRestored, h.c.Tap())
	assert.Equal(t, presentation.TapIgnored, h.c.Tap(), "taps during the animation are ignored")
	h.pump(2)
	assert.True(t, h.c.IsMinimized())
	h.pump(1)
	assert.False(t, h.c.IsMinimized())

	assert.Equal(t, []string{"willEndMinimizing(false)", "didEndMinimizing(false)"}, h.delegate.Events)
	assert.True(t, h.content.Last.Frame.ApproxEqual(portrait.Rect()))
	assert.Equal(t, presentation.TapTogglePlayback, h.c.Tap())
}

func TestTapInline(t *testing.T) {
	h := newHarness(t, presentation.SwipeNone)
	assert.Equal(t, presentation.TapTogglePlayback, h.c.Tap())

	opts := h.c.Options()
	opts.ShouldDisplayFullscreen = true
	h.c.SetOptions(opts)
	assert.Equal(t, presentation.TapPresent, h.c.Tap())
}

func TestOrientation(t *testing.T) {
	h := newHarness(t, presentation.SwipeMinimize)
	assert.False(t, h.c.SwipeEnabled(), "inline views never swipe")

	h.present()
	assert.True(t, h.c.SwipeEnabled())
	h.minimize(t)

	landscape := presentation.Screen{Width: 800, Height: 400}
	h.c.SetScreen(landscape)
	assert.False(t, h.c.IsMinimized())
	assert.True(t, h.c.IsFullScreen())
	assert.False(t, h.c.SwipeEnabled())
	assert.True(t, h.content.Last.Frame.ApproxEqual(landscape.Rect()))
	assert.Equal(t, []string{"willEndMinimizing(false)", "didEndMinimizing(false)"}, h.delegate.Events)
	assert.InDelta(t, 1, h.content.Last.CloseAlpha, 1e-9)

	h.delegate.Reset()
	mediatest.Swipe(h.c, 0, 300, 2, graphics.Offset{Y: 500})
	assert.Empty(t, h.delegate.Events, "landscape swipes are ignored")

	h.c.SetScreen(portrait)
	assert.True(t, h.c.SwipeEnabled())
}

func TestMinimizedReanchorsOnPortraitResize(t *testing.T) {
	h := newHarness(t, presentation.SwipeMinimize)
	h.present()
	h.minimize(t)

	tall := presentation.Screen{Width: 400, Height: 900}
	h.c.SetScreen(tall)
	assert.True(t, h.c.IsMinimized())
	assert.True(t, h.content.Last.Frame.ApproxEqual(h.c.MinimizedFrame()))
	assert.InDelta(t, 900-112.5-12, h.c.MaxOffsetY(), 1e-9)
}

func TestIndicatorRule(t *testing.T) {
	h := newHarness(t, presentation.SwipeMinimize)
	h.present()

	h.c.ShowIndicator(1)
	assert.InDelta(t, 1, h.content.Last.IndicatorAlpha, 1e-9)

	h.content.Playing = true
	h.c.ShowIndicator(0)
	assert.InDelta(t, 1, h.content.Last.IndicatorAlpha, 1e-9, "playing media keeps its indicator untouched")

	h.content.Loading = true
	h.c.ShowIndicator(0.3)
	assert.InDelta(t, 0.3, h.content.Last.IndicatorAlpha, 1e-9)

	h.c.SetShouldHidePlayButton(true)
	assert.Zero(t, h.content.Last.IndicatorAlpha)
	h.c.ShowIndicator(1)
	h.c.SetIndicatorAlpha(1)
	assert.Zero(t, h.content.Last.IndicatorAlpha)

	h.content.Playing, h.content.Loading = false, false
	mediatest.SwipeWithoutRelease(h.c, 0, h.c.MaxOffsetY()/4, 1, graphics.Offset{Y: 10})
	assert.Zero(t, h.content.Last.IndicatorAlpha)
}

func TestOverlayDuringMinimize(t *testing.T) {
	h := newHarness(t, presentation.SwipeMinimize)
	h.content.Title = true
	h.present()
	h.c.RefreshChrome()
	assert.InDelta(t, 1, h.content.Last.OverlayAlpha, 1e-9)

	mediatest.SwipeWithoutRelease(h.c, 0, h.c.MaxOffsetY()/4, 1, graphics.Offset{Y: 10})
	assert.InDelta(t, 0.75, h.content.Last.OverlayAlpha, 1e-9)

	h.content.Playing = true
	h.c.HandlePan(presentation.PanEvent{Phase: presentation.PanChanged, Translation: graphics.Offset{Y: h.c.MaxOffsetY() / 2}})
	assert.Zero(t, h.content.Last.OverlayAlpha)
}

func TestHiddenCloseButton(t *testing.T) {
	h := newHarness(t, presentation.SwipeDismiss)
	h.present()
	assert.InDelta(t, 1, h.content.Last.CloseAlpha, 1e-9)

	h.c.SetShouldHideCloseButton(true)
	assert.Zero(t, h.content.Last.CloseAlpha)

	h.c.SetSwipeMode(presentation.SwipeNone)
	assert.InDelta(t, 1, h.content.Last.CloseAlpha, 1e-9, "hiding needs swipes to close the view")
}

func TestMinimizedImpliesFullScreen(t *testing.T) {
	h := newHarness(t, presentation.SwipeMinimize)
	q := presentation.NewQueue(nil, nil)
	rng := rand.New(rand.NewPCG(1, 2))

	check := func(step int) {
		if h.c.IsMinimized() {
			require.True(t, h.c.IsFullScreen(), "step %d", step)
		}
	}
	for step := range 400 {
		switch rng.IntN(7) {
		case 0:
			q.Present(h.c, rng.IntN(2) == 0)
		case 1:
			mediatest.Swipe(h.c, rng.Float64()*400-100, rng.Float64()*1600-400, 1+rng.IntN(4),
				graphics.Offset{X: rng.Float64()*600 - 300, Y: rng.Float64()*600 - 300})
		case 2:
			h.c.Tap()
		case 3:
			q.DismissCurrent(rng.IntN(2) == 0, nil)
		case 4:
			if rng.IntN(2) == 0 {
				h.c.SetScreen(portrait)
			} else {
				h.c.SetScreen(presentation.Screen{Width: 800, Height: 400})
			}
		case 5:
			mediatest.SwipeWithoutRelease(h.c, rng.Float64()*300, rng.Float64()*300, 2, graphics.Offset{X: 50, Y: 10})
			h.c.HandlePan(presentation.PanEvent{Phase: presentation.PanCancelled})
		case 6:
			h.pump(1 + rng.IntN(3))
		}
		check(step)
		p := h.c.OffsetPercentage()
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)
	}
}
