package mediaview

import (
	"context"
	"fmt"

	"github.com/go-drift/mediaview/pkg/animation"
	"github.com/go-drift/mediaview/pkg/cache"
	"github.com/go-drift/mediaview/pkg/dispatch"
	"github.com/go-drift/mediaview/pkg/logging"
	"github.com/go-drift/mediaview/pkg/playback"
	"github.com/go-drift/mediaview/pkg/presentation"
)

// Window hosts the view that occupies the full-screen slot.
type Window interface {
	Attach(v *View)
	Detach(v *View)
}

// Config builds a Runtime. Zero fields get working defaults, except
// Players: without a player factory playable media fails to load.
type Config struct {
	// Screen is the initial window size.
	Screen presentation.Screen
	// Cache is used as is when set. Otherwise one is built from CacheOptions.
	Cache        *cache.Cache
	CacheOptions cache.Options
	// Window receives full-screen attach and detach calls.
	Window Window
	// Overlay draws full-screen copies. Nil draws them on the source view's surface.
	Overlay Surface
	// Audio applies audio categories for the shared AudioPolicy.
	Audio playback.AudioSession
	// Players opens a fresh Player per session.
	Players playback.Factory
	// Dispatcher is the UI thread. Nil uses a new dispatch.Loop the host must run.
	Dispatcher dispatch.Dispatcher
	// Clock drives the frame loop. Nil uses the system clock.
	Clock animation.Clock
	// Logs names the component loggers. Nil discards logs.
	Logs *logging.Provider
}

// Runtime holds the process-wide services every View shares: the media
// cache, the presentation queue, the audio policy and the frame loop.
// Build one per process, or one per test.
type Runtime struct {
	Cache      *cache.Cache
	Queue      *presentation.Queue
	Policy     *playback.AudioPolicy
	Loop       *animation.FrameLoop
	Dispatcher dispatch.Dispatcher
	Players    playback.Factory
	Overlay    Surface

	logs   *logging.Provider
	log    logging.Logger
	window Window
	screen presentation.Screen
	views  map[*presentation.Controller]*View
	owned  bool
}

// NewRuntime wires the shared services described by cfg.
func NewRuntime(cfg Config) (*Runtime, error) {
	d := cfg.Dispatcher
	if d == nil {
		d = dispatch.NewLoop()
	}
	rt := &Runtime{
		Loop:       animation.NewFrameLoop(cfg.Clock),
		Dispatcher: d,
		Players:    cfg.Players,
		Overlay:    cfg.Overlay,
		logs:       cfg.Logs,
		log:        cfg.Logs.Get("mediaview"),
		window:     cfg.Window,
		screen:     cfg.Screen,
		views:      make(map[*presentation.Controller]*View),
	}

	rt.Cache = cfg.Cache
	if rt.Cache == nil {
		opts := cfg.CacheOptions
		if opts.Dispatcher == nil {
			opts.Dispatcher = d
		}
		if opts.Logger == nil {
			opts.Logger = cfg.Logs.Get("cache")
		}
		c, err := cache.New(opts)
		if err != nil {
			return nil, fmt.Errorf("mediaview: open cache: %w", err)
		}
		rt.Cache = c
		rt.owned = true
		// Runs until the cache is closed.
		if err := c.Watch(context.Background()); err != nil {
			rt.log.Warn("persisted media will not be watched", "err", err)
		}
	}

	rt.Policy = playback.NewAudioPolicy(cfg.Audio, cfg.Logs.Get("audio"))
	rt.Queue = presentation.NewQueue(windowAdapter{rt}, cfg.Logs.Get("queue"))
	return rt, nil
}

// Logger returns the logger registered under name.
func (rt *Runtime) Logger(name string) logging.Logger {
	return rt.logs.Get(name)
}

// Screen returns the current window size.
func (rt *Runtime) Screen() presentation.Screen { return rt.screen }

// SetScreen applies a rotation or window resize to every open view.
func (rt *Runtime) SetScreen(s presentation.Screen) {
	rt.screen = s
	for _, v := range rt.Views() {
		v.SetScreen(s)
	}
}

// HandleLifecycle forwards an app lifecycle change to every open view.
func (rt *Runtime) HandleLifecycle(state LifecycleState) {
	rt.log.Debug("lifecycle", "state", state)
	for _, v := range rt.Views() {
		v.HandleLifecycle(state)
	}
}

// SetAudioTypes sets the categories applied when media starts and stops.
func (rt *Runtime) SetAudioTypes(whenPlay, whenStop playback.AudioType) {
	rt.Policy.SetWhenPlay(whenPlay)
	rt.Policy.SetWhenStop(whenStop)
}

// Current returns the view in the full-screen slot, or nil.
func (rt *Runtime) Current() *View {
	return rt.views[rt.Queue.Current()]
}

// Views returns every open view.
func (rt *Runtime) Views() []*View {
	out := make([]*View, 0, len(rt.views))
	for _, v := range rt.views {
		out = append(out, v)
	}
	return out
}

// Close closes every view, and the cache when the runtime created it. Closing
// the cache also stops its directory watch.
func (rt *Runtime) Close() {
	for _, v := range rt.Views() {
		v.Close()
	}
	if rt.owned {
		rt.Cache.Close()
	}
	if l, ok := rt.Dispatcher.(*dispatch.Loop); ok {
		l.Close()
	}
}

func (rt *Runtime) register(v *View) {
	rt.views[v.pres] = v
}

func (rt *Runtime) unregister(v *View) {
	delete(rt.views, v.pres)
}

type windowAdapter struct{ rt *Runtime }

func (w windowAdapter) Attach(c *presentation.Controller) {
	v, ok := w.rt.views[c]
	if !ok {
		return
	}
	w.rt.log.Debug("attach", "view", v.ID)
	if w.rt.window != nil {
		w.rt.window.Attach(v)
	}
}

func (w windowAdapter) Detach(c *presentation.Controller) {
	v, ok := w.rt.views[c]
	if !ok {
		return
	}
	w.rt.log.Debug("detach", "view", v.ID)
	if w.rt.window != nil {
		w.rt.window.Detach(v)
	}
	if v.source != nil {
		v.Close()
	}
}
