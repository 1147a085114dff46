package mediaview

import (
	"fmt"
	"time"

	"github.com/go-drift/mediaview/pkg/cache"
	"github.com/go-drift/mediaview/pkg/errors"
	"github.com/go-drift/mediaview/pkg/media"
	"github.com/go-drift/mediaview/pkg/playback"
)

const (
	// PulseInterval is the period of one half of the loading pulse.
	PulseInterval = 751 * time.Millisecond
	// PulseDimAlpha is the indicator alpha at the dim end of the pulse.
	PulseDimAlpha = 0.4
)

var errNoPlayers = fmt.Errorf("mediaview: no player factory configured")

// LoadPlayableMedia opens a player for the current video or audio and
// starts it when play is set. A locally persisted copy is preferred over
// the remote location. Failed media stays failed until replaced.
func (v *View) LoadPlayableMedia(play bool) {
	location, kind, ok := v.ref.Playable()
	if !ok || v.closed || v.failed {
		return
	}
	remote := !v.opts.FromDirectory && media.IsRemote(location)
	if val, hit := v.rt.Cache.Get(kind, location); hit && val.Path != "" {
		location, remote = val.Path, false
	} else if v.ref.PlayablePath != "" {
		location, remote = v.ref.PlayablePath, false
	}

	v.closeSession()
	if play {
		v.beginPulse()
	}

	if v.rt.Players == nil {
		v.onFailed(errors.New("mediaview.LoadPlayableMedia", errors.KindPlayback, location, errNoPlayers))
		return
	}
	player, err := v.rt.Players()
	if err != nil {
		me := errors.New("mediaview.LoadPlayableMedia", errors.KindPlayback, location, err)
		errors.Report(me)
		v.onFailed(me)
		return
	}

	s := playback.NewSession(player, location, playback.Options{
		Looping:       v.opts.AllowLooping,
		CacheStreamed: v.opts.ShouldCacheStreamedMedia,
		Video:         kind == media.Video,
		Remote:        remote,
		Policy:        v.rt.Policy,
		Dispatcher:    v.rt.Dispatcher,
		Logger:        v.rt.Logger("playback"),
	})
	s.OnReady = v.settle
	s.OnFailed = v.onFailed
	s.OnProgress = v.track.SetProgress
	s.OnBuffer = v.track.SetBuffer
	s.OnBufferEmpty = v.beginPulse
	s.OnBufferFull = v.settle
	s.OnLikelyToKeepUp = v.settle
	s.OnPlay = v.played
	s.OnPause = v.paused
	s.OnFinished = v.finished
	s.OnPersist = func(loc string) { v.persist(kind, loc) }
	v.session = s

	v.log.Debug("loading", "view", v.ID, "kind", kind.String(), "location", location, "remote", remote)
	if err := s.Start(); err != nil {
		return
	}
	if v.look.Volume != 1 {
		v.volume = v.look.Volume
		s.SetVolume(v.volume)
	}
	if play {
		s.Play()
	}
}

// presented runs once the view is full screen.
func (v *View) presented() {
	if !v.opts.ShouldAutoPlayAfterPresentation || !v.ref.HasPlayableMedia() || v.failed {
		return
	}
	if v.session != nil {
		v.session.Play()
		return
	}
	v.LoadPlayableMedia(true)
}

// togglePlayback handles a tap on the media itself.
func (v *View) togglePlayback() {
	if v.failed || !v.ref.HasPlayableMedia() {
		return
	}
	s := v.session
	switch {
	case s == nil:
		v.LoadPlayableMedia(true)
	case s.IsPlaying():
		s.Pause()
	case s.IsWaiting():
		v.beginPulse()
		s.Play()
	default:
		v.stopPulse()
		v.pres.SetIndicatorAlpha(0)
		s.Play()
	}
}

func (v *View) seek(pos time.Duration) {
	if v.session != nil {
		v.session.Seek(pos)
	}
}

func (v *View) closeSession() {
	if v.session == nil {
		return
	}
	v.session.Close()
	v.session = nil
	v.volume = 1
}

func (v *View) played() {
	v.settle()
	v.pres.RefreshChrome()
	v.delegate.Played(v)
}

func (v *View) paused() {
	v.stopPulse()
	v.pres.ShowIndicator(1)
	v.pres.RefreshChrome()
	v.delegate.Paused(v)
}

func (v *View) onFailed(err error) {
	v.failed = true
	v.stopPulse()
	v.pres.SetIndicatorAlpha(1)
	v.pres.RefreshChrome()
	v.log.Warn("playback failed", "view", v.ID, "error", err)
	v.delegate.Failed(v, err)
	v.Render()
}

func (v *View) finished(looped bool) {
	if v.pres.IsFullScreen() && v.opts.ShouldDismissAfterFinishedPlaying {
		v.delegate.Finished(v, false)
		v.Dismiss(true)
		return
	}
	v.delegate.Finished(v, looped)
	if !looped {
		v.pres.ShowIndicator(1)
		v.pres.RefreshChrome()
	}
}

// persist downloads streamed media once the player has buffered all of it.
func (v *View) persist(kind media.Kind, location string) {
	v.rt.Cache.Fetch(kind, location, func(val *cache.Value) {
		v.downloaded(kind, location, val)
	})
}

// preload downloads playable media as soon as it is set.
func (v *View) preload(kind media.Kind, location string) {
	if val, ok := v.rt.Cache.Get(kind, location); ok {
		v.ref.PlayablePath = val.Path
		return
	}
	v.rt.Cache.Fetch(kind, location, func(val *cache.Value) {
		v.downloaded(kind, location, val)
	})
}

func (v *View) downloaded(kind media.Kind, location string, val *cache.Value) {
	if v.closed || val == nil || val.Path == "" {
		return
	}
	if cur, _, _ := v.ref.Playable(); cur == location {
		v.ref.PlayablePath = val.Path
	}
	if kind == media.Video {
		v.delegate.DownloadedVideo(v, val.Path)
	} else {
		v.delegate.DownloadedAudio(v, val.Path)
	}
}

// shouldPulse reports whether the indicator should pulse: playback was
// requested or is due and the item cannot play smoothly yet.
func (v *View) shouldPulse() bool {
	if v.failed || !v.ref.HasPlayableMedia() {
		return false
	}
	return v.session == nil || v.session.IsWaiting()
}

// beginPulse starts alternating the indicator between full and dim alpha.
func (v *View) beginPulse() {
	v.stopPulse()
	if v.failed {
		v.pres.SetIndicatorAlpha(1)
		return
	}
	v.pulse()
	if v.shouldPulse() {
		v.pulseCancel = v.rt.Loop.Every(PulseInterval, v.pulse)
	}
}

func (v *View) pulse() {
	if !v.shouldPulse() {
		v.settle()
		return
	}
	next := 1.0
	if v.look.IndicatorAlpha >= 1 {
		next = PulseDimAlpha
	}
	v.pres.SetIndicatorAlpha(next)
}

func (v *View) stopPulse() {
	if v.pulseCancel != nil {
		v.pulseCancel()
		v.pulseCancel = nil
	}
}

// settle stops a pulse that is no longer needed and leaves the indicator
// in its resting state.
func (v *View) settle() {
	if v.shouldPulse() && v.session != nil && v.pulseCancel != nil {
		return
	}
	v.stopPulse()
	switch {
	case v.failed:
		v.pres.SetIndicatorAlpha(1)
	case v.IsPlaying():
		v.pres.SetIndicatorAlpha(0)
	default:
		v.pres.ShowIndicator(1)
	}
	v.Render()
}
