package playback_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mediaview/pkg/dispatch"
	"github.com/go-drift/mediaview/pkg/playback"
	mediatest "github.com/go-drift/mediaview/pkg/testing"
)

type sessionEvents struct {
	ready    int
	failed   []error
	play     int
	pause    int
	finished []bool
	persist  []string
	progress []time.Duration
	buffer   []time.Duration
	empty    int
	full     int
	likely   int
}

func wire(s *playback.Session) *sessionEvents {
	ev := &sessionEvents{}
	s.OnReady = func() { ev.ready++ }
	s.OnFailed = func(err error) { ev.failed = append(ev.failed, err) }
	s.OnPlay = func() { ev.play++ }
	s.OnPause = func() { ev.pause++ }
	s.OnFinished = func(loop bool) { ev.finished = append(ev.finished, loop) }
	s.OnPersist = func(loc string) { ev.persist = append(ev.persist, loc) }
	s.OnProgress = func(pos, _ time.Duration) { ev.progress = append(ev.progress, pos) }
	s.OnBuffer = func(b, _ time.Duration) { ev.buffer = append(ev.buffer, b) }
	s.OnBufferEmpty = func() { ev.empty++ }
	s.OnBufferFull = func() { ev.full++ }
	s.OnLikelyToKeepUp = func() { ev.likely++ }
	return ev
}

func TestSession_Lifecycle(t *testing.T) {
	p := mediatest.NewFakePlayer()
	s := playback.NewSession(p, "https://example.com/a.mp4", playback.Options{Video: true, Remote: true})
	ev := wire(s)

	require.NoError(t, s.Start())
	assert.Equal(t, playback.StateLoading, s.State())
	assert.Equal(t, "https://example.com/a.mp4", p.Loaded())
	assert.True(t, s.IsLoadingOrBuffering())

	p.BecomeReady(10 * time.Second)
	assert.Equal(t, 1, ev.ready)
	assert.Equal(t, playback.StateReady, s.State())

	s.Play()
	s.Play()
	assert.Equal(t, 1, ev.play)
	assert.True(t, s.IsPlaying())
	assert.False(t, s.IsLoadingOrBuffering())

	p.Tick(2 * time.Second)
	assert.Equal(t, []time.Duration{2 * time.Second}, ev.progress)

	s.Pause()
	s.Pause()
	assert.Equal(t, 1, ev.pause)
	assert.Equal(t, playback.StatePaused, s.State())
	assert.False(t, s.IsPlaying())
}

func TestSession_PlayWhileLoading(t *testing.T) {
	p := mediatest.NewFakePlayer()
	s := playback.NewSession(p, "a.mp4", playback.Options{})
	ev := wire(s)

	s.Play()
	assert.Zero(t, ev.play, "play before Start is ignored")

	require.NoError(t, s.Start())
	s.Play()
	assert.Equal(t, 1, ev.play)
	assert.Equal(t, playback.StatePlaying, s.State())

	p.BecomeReady(time.Second)
	assert.Equal(t, 1, ev.ready)
	assert.Equal(t, playback.StatePlaying, s.State())
}

func TestSession_BufferEvents(t *testing.T) {
	p := mediatest.NewFakePlayer()
	s := playback.NewSession(p, "a.mp3", playback.Options{})
	ev := wire(s)
	require.NoError(t, s.Start())

	p.Emit(playback.Event{Kind: playback.EventBufferEmpty})
	p.Emit(playback.Event{Kind: playback.EventStalled})
	p.Emit(playback.Event{Kind: playback.EventBufferFull})
	p.Emit(playback.Event{Kind: playback.EventLikelyToKeepUp})
	p.Emit(playback.Event{Kind: playback.EventBufferedChanged, Buffered: time.Second})

	assert.Equal(t, 2, ev.empty)
	assert.Equal(t, 1, ev.full)
	assert.Equal(t, 1, ev.likely)
	assert.Equal(t, []time.Duration{time.Second}, ev.buffer)
}

func TestSession_EndOfMedia(t *testing.T) {
	tests := []struct {
		name      string
		looping   bool
		wantState playback.State
		wantLoop  bool
	}{
		{"looping restarts", true, playback.StatePlaying, true},
		{"non-looping rewinds and pauses", false, playback.StatePaused, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mediatest.NewFakePlayer()
			s := playback.NewSession(p, "a.mp4", playback.Options{Looping: tt.looping})
			ev := wire(s)
			require.NoError(t, s.Start())
			p.BecomeReady(5 * time.Second)
			s.Play()

			p.Emit(playback.Event{Kind: playback.EventReachedEnd})

			assert.Equal(t, []bool{tt.wantLoop}, ev.finished)
			assert.Equal(t, tt.wantState, s.State())
			assert.Equal(t, []time.Duration{0}, p.Seeks())
			assert.Equal(t, 0, ev.pause, "end of media does not report a pause")
		})
	}
}

func TestSession_PersistOnce(t *testing.T) {
	tests := []struct {
		name string
		opts playback.Options
		want int
	}{
		{"remote video", playback.Options{CacheStreamed: true, Video: true, Remote: true}, 1},
		{"disabled", playback.Options{Video: true, Remote: true}, 0},
		{"local", playback.Options{CacheStreamed: true, Video: true}, 0},
		{"audio", playback.Options{CacheStreamed: true, Remote: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mediatest.NewFakePlayer()
			s := playback.NewSession(p, "https://x/v.mp4", tt.opts)
			ev := wire(s)
			require.NoError(t, s.Start())
			p.BecomeReady(4 * time.Second)

			p.Emit(playback.Event{Kind: playback.EventBufferedChanged, Buffered: 2 * time.Second})
			p.Emit(playback.Event{Kind: playback.EventBufferedChanged, Buffered: 4 * time.Second})
			p.Emit(playback.Event{Kind: playback.EventBufferedChanged, Buffered: 4 * time.Second})

			assert.Len(t, ev.persist, tt.want)
		})
	}
}

func TestSession_Failure(t *testing.T) {
	p := mediatest.NewFakePlayer()
	s := playback.NewSession(p, "a.mp4", playback.Options{})
	ev := wire(s)
	require.NoError(t, s.Start())

	boom := fmt.Errorf("decoder gone")
	p.Fail(boom)
	p.Fail(boom)

	require.Len(t, ev.failed, 1)
	assert.ErrorIs(t, ev.failed[0], boom)
	assert.Equal(t, playback.StateFailed, s.State())
	assert.True(t, s.DidFailToPlay())
	assert.False(t, s.IsLoadingOrBuffering())

	s.Play()
	assert.Equal(t, 0, ev.play)
}

func TestSession_LoadError(t *testing.T) {
	p := mediatest.NewFakePlayer()
	p.LoadErr = fmt.Errorf("no such file")
	s := playback.NewSession(p, "missing.mp4", playback.Options{})
	ev := wire(s)

	assert.Error(t, s.Start())
	assert.Len(t, ev.failed, 1)
	assert.True(t, s.DidFailToPlay())
}

func TestSession_CloseDropsLateCallbacks(t *testing.T) {
	loop := dispatch.NewLoop()
	p := mediatest.NewFakePlayer()
	s := playback.NewSession(p, "a.mp4", playback.Options{Dispatcher: loop})
	ev := wire(s)
	require.NoError(t, s.Start())

	p.BecomeReady(time.Second)
	p.Tick(time.Millisecond)
	assert.Equal(t, 2, loop.Pending())

	s.Close()
	loop.Drain()

	assert.Zero(t, ev.ready)
	assert.Empty(t, ev.progress)
	assert.True(t, p.Closed())
	assert.Zero(t, p.Observers())
	assert.Error(t, s.Start())
}

func TestSession_CloseOrder(t *testing.T) {
	p := mediatest.NewFakePlayer()
	s := playback.NewSession(p, "a.mp4", playback.Options{})
	require.NoError(t, s.Start())
	p.BecomeReady(time.Second)
	s.Play()

	s.Close()
	s.Close()

	assert.Equal(t, []string{"load", "play", "close"}, p.Calls())
	assert.Equal(t, time.Duration(0), s.Position())
	assert.Equal(t, time.Duration(0), s.Duration())
}

func TestSession_AudioPolicy(t *testing.T) {
	audio := &mediatest.FakeAudioSession{}
	policy := playback.NewAudioPolicy(audio, nil)
	policy.SetWhenPlay(playback.AudioPlayWhenSilent)
	policy.SetWhenStop(playback.AudioStandard)

	p := mediatest.NewFakePlayer()
	s := playback.NewSession(p, "a.mp3", playback.Options{Policy: policy})
	require.NoError(t, s.Start())
	p.BecomeReady(time.Second)

	s.Play()
	assert.Equal(t, playback.AudioPlayWhenSilent, policy.Current())
	s.Pause()
	assert.Equal(t, playback.AudioStandard, policy.Current())
	s.Play()
	s.Close()

	assert.Equal(t, []playback.AudioType{
		playback.AudioPlayWhenSilent,
		playback.AudioStandard,
		playback.AudioPlayWhenSilent,
		playback.AudioStandard,
	}, audio.Applied())
}

func TestAudioPolicy_SkipsRedundantApply(t *testing.T) {
	audio := &mediatest.FakeAudioSession{}
	policy := playback.NewAudioPolicy(audio, nil)

	policy.ApplyStopped()
	policy.ApplyStopped()
	policy.ApplyPlaying()

	assert.Len(t, audio.Applied(), 1)
}

func TestParseAudioType(t *testing.T) {
	got, err := playback.ParseAudioType("play_when_silent")
	require.NoError(t, err)
	assert.Equal(t, playback.AudioPlayWhenSilent, got)

	got, err = playback.ParseAudioType("")
	require.NoError(t, err)
	assert.Equal(t, playback.AudioStandard, got)

	_, err = playback.ParseAudioType("loud")
	assert.Error(t, err)
}

func TestSession_Volume(t *testing.T) {
	p := mediatest.NewFakePlayer()
	s := playback.NewSession(p, "a.mp3", playback.Options{})
	require.NoError(t, s.Start())
	s.SetVolume(0.25)
	assert.InDelta(t, 0.25, p.Volume(), 1e-9)
}
