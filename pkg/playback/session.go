package playback

import (
	"fmt"
	"time"

	"github.com/go-drift/mediaview/pkg/dispatch"
	"github.com/go-drift/mediaview/pkg/errors"
	"github.com/go-drift/mediaview/pkg/logging"
)

// DefaultTickInterval is how often OnProgress fires while a session is open.
const DefaultTickInterval = 100 * time.Millisecond

// Options configures a Session.
type Options struct {
	// Looping restarts playback from zero when the item ends.
	Looping bool
	// CacheStreamed requests OnPersist once a remote video is fully buffered.
	CacheStreamed bool
	// Video marks the item as video rather than audio.
	Video bool
	// Remote marks the location as a network stream.
	Remote bool
	// Policy switches audio categories on play and stop. Nil disables it.
	Policy *AudioPolicy
	// Dispatcher delivers player notifications to the UI thread. Nil runs them inline.
	Dispatcher dispatch.Dispatcher
	// TickInterval overrides DefaultTickInterval.
	TickInterval time.Duration
	// Logger receives lifecycle records. Nil discards them.
	Logger logging.Logger
}

// Session plays one location on one Player.
//
// Set callback fields before calling [Session.Start] so no events are missed.
// All callbacks run on the UI thread. Session methods must be called on the
// UI thread too.
type Session struct {
	// OnReady is called when the item becomes ready to play.
	OnReady func()
	// OnFailed is called once when the session fails.
	OnFailed func(err error)
	// OnProgress is called every tick with the position and duration.
	OnProgress func(pos, dur time.Duration)
	// OnBuffer is called when the buffered extent grows.
	OnBuffer func(buffered, dur time.Duration)
	// OnBufferEmpty is called when playback drains the buffer or stalls.
	OnBufferEmpty func()
	// OnBufferFull is called when the buffer is full.
	OnBufferFull func()
	// OnLikelyToKeepUp is called when playback should continue smoothly.
	OnLikelyToKeepUp func()
	// OnPlay is called when playback starts.
	OnPlay func()
	// OnPause is called when playback pauses.
	OnPause func()
	// OnFinished is called when the item ends. willLoop reports whether
	// playback restarts from zero.
	OnFinished func(willLoop bool)
	// OnPersist is called once when a remote video finishes buffering and
	// CacheStreamed is set, so the owner can persist it.
	OnPersist func(location string)

	player     Player
	location   string
	opts       Options
	dispatcher dispatch.Dispatcher
	log        logging.Logger

	state     State
	closed    bool
	persisted bool
	cancels   []func()
}

// NewSession prepares a session for location. Nothing is loaded until Start.
func NewSession(player Player, location string, opts Options) *Session {
	d := opts.Dispatcher
	if d == nil {
		d = dispatch.Sync{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	return &Session{
		player:     player,
		location:   location,
		opts:       opts,
		dispatcher: d,
		log:        logging.OrNoOp(opts.Logger),
	}
}

// Start attaches the observers and loads the location.
func (s *Session) Start() error {
	if s.closed {
		return fmt.Errorf("playback: session closed")
	}
	if s.state != StateIdle {
		return nil
	}
	s.state = StateLoading
	s.cancels = append(s.cancels,
		s.player.Subscribe(func(ev Event) {
			s.post(func() { s.handle(ev) })
		}),
		s.player.AddPeriodicObserver(s.opts.TickInterval, func(pos time.Duration) {
			s.post(func() {
				if s.OnProgress != nil {
					s.OnProgress(pos, s.player.Duration())
				}
			})
		}),
	)
	s.log.Debug("session loading", "location", s.location)

	if err := s.player.Load(s.location); err != nil {
		s.fail(err)
		return err
	}
	return nil
}

// post runs fn on the UI thread unless the session has been closed by then.
func (s *Session) post(fn func()) {
	s.dispatcher.Dispatch(func() {
		if s.closed {
			return
		}
		fn()
	})
}

func (s *Session) handle(ev Event) {
	switch ev.Kind {
	case EventStatusChanged:
		switch ev.Status {
		case ItemReadyToPlay:
			if s.state == StateLoading {
				s.state = StateReady
			}
			s.log.Debug("session ready", "location", s.location)
			if s.OnReady != nil {
				s.OnReady()
			}
		case ItemFailed:
			err := ev.Err
			if err == nil {
				err = s.player.Err()
			}
			if err == nil {
				err = fmt.Errorf("player failed")
			}
			s.fail(err)
		}
	case EventBufferedChanged:
		dur := s.player.Duration()
		if s.OnBuffer != nil {
			s.OnBuffer(ev.Buffered, dur)
		}
		if dur > 0 && ev.Buffered >= dur {
			s.bufferedToEnd()
		}
	case EventBufferEmpty, EventStalled:
		if s.OnBufferEmpty != nil {
			s.OnBufferEmpty()
		}
	case EventBufferFull:
		if s.OnBufferFull != nil {
			s.OnBufferFull()
		}
	case EventLikelyToKeepUp:
		if s.OnLikelyToKeepUp != nil {
			s.OnLikelyToKeepUp()
		}
	case EventReachedEnd:
		s.reachedEnd()
	}
}

func (s *Session) bufferedToEnd() {
	if s.persisted || !s.opts.CacheStreamed || !s.opts.Video || !s.opts.Remote {
		return
	}
	s.persisted = true
	s.log.Debug("stream fully buffered", "location", s.location)
	if s.OnPersist != nil {
		s.OnPersist(s.location)
	}
}

func (s *Session) reachedEnd() {
	if s.state == StateFailed {
		return
	}
	if err := s.player.Seek(0); err != nil {
		s.log.Warn("seek to start failed", "location", s.location, "err", err)
	}
	if s.opts.Looping {
		if err := s.player.Play(); err != nil {
			s.fail(err)
			return
		}
		s.state = StatePlaying
		if s.OnFinished != nil {
			s.OnFinished(true)
		}
		return
	}

	if err := s.player.Pause(); err != nil {
		s.log.Warn("pause at end failed", "location", s.location, "err", err)
	}
	s.state = StatePaused
	if s.opts.Policy != nil {
		s.opts.Policy.ApplyStopped()
	}
	if s.OnFinished != nil {
		s.OnFinished(false)
	}
}

func (s *Session) fail(err error) {
	if s.state == StateFailed {
		return
	}
	wasPlaying := s.state == StatePlaying
	s.state = StateFailed
	errors.Report(errors.New("playback.Session", errors.KindPlayback, s.location, err))
	if wasPlaying && s.opts.Policy != nil {
		s.opts.Policy.ApplyStopped()
	}
	if s.OnFailed != nil {
		s.OnFailed(err)
	}
}

// Play starts or resumes playback. It is a no-op when already playing,
// closed or failed.
func (s *Session) Play() {
	if s.closed || s.state == StateFailed || s.state == StateIdle || s.state == StatePlaying {
		return
	}
	if s.opts.Policy != nil {
		s.opts.Policy.ApplyPlaying()
	}
	if err := s.player.Play(); err != nil {
		s.fail(err)
		return
	}
	s.state = StatePlaying
	s.log.Debug("session playing", "location", s.location)
	if s.OnPlay != nil {
		s.OnPlay()
	}
}

// Pause pauses playback. It is a no-op unless playing.
func (s *Session) Pause() {
	if s.closed || s.state != StatePlaying {
		return
	}
	if err := s.player.Pause(); err != nil {
		s.fail(err)
		return
	}
	s.state = StatePaused
	if s.opts.Policy != nil {
		s.opts.Policy.ApplyStopped()
	}
	if s.OnPause != nil {
		s.OnPause()
	}
}

// Seek moves the playhead.
func (s *Session) Seek(pos time.Duration) {
	if s.closed || s.state == StateFailed {
		return
	}
	if err := s.player.Seek(pos); err != nil {
		s.log.Warn("seek failed", "location", s.location, "pos", pos, "err", err)
	}
}

// SetVolume sets the output volume in [0, 1].
func (s *Session) SetVolume(v float64) {
	if s.closed {
		return
	}
	if err := s.player.SetVolume(v); err != nil {
		s.log.Warn("set volume failed", "location", s.location, "err", err)
	}
}

// Close detaches every observer and then releases the player. Callbacks
// already queued on the dispatcher are dropped.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, cancel := range s.cancels {
		if cancel != nil {
			cancel()
		}
	}
	s.cancels = nil
	if s.state == StatePlaying && s.opts.Policy != nil {
		s.opts.Policy.ApplyStopped()
	}
	if err := s.player.Close(); err != nil {
		s.log.Warn("player close failed", "location", s.location, "err", err)
	}
	s.state = StateIdle
	s.log.Debug("session closed", "location", s.location)
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Location returns the location being played.
func (s *Session) Location() string { return s.location }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed }

// IsPlaying reports whether media is advancing.
func (s *Session) IsPlaying() bool {
	if s.closed || s.state == StateFailed {
		return false
	}
	return s.player.Rate() != 0 && s.player.Err() == nil
}

// IsLoadingOrBuffering reports whether the player is paused waiting for data.
func (s *Session) IsLoadingOrBuffering() bool {
	return !s.IsPlaying() && s.IsWaiting()
}

// IsWaiting reports whether the item is not ready or cannot keep up,
// whether or not playback has been requested.
func (s *Session) IsWaiting() bool {
	if s.closed || s.state == StateFailed {
		return false
	}
	return !s.player.LikelyToKeepUp() || s.player.Status() != ItemReadyToPlay
}

// DidFailToPlay reports whether the item failed.
func (s *Session) DidFailToPlay() bool {
	return s.state == StateFailed || (!s.closed && s.player.Status() == ItemFailed)
}

// Position returns the playhead position.
func (s *Session) Position() time.Duration {
	if s.closed {
		return 0
	}
	return s.player.Position()
}

// Duration returns the item duration, or zero while unknown.
func (s *Session) Duration() time.Duration {
	if s.closed {
		return 0
	}
	return s.player.Duration()
}
