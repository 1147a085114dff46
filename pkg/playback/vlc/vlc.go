//go:build vlc

// Package vlc implements playback.Player on top of libVLC.
//
// It needs the libvlc development headers at build time and is compiled only
// with the vlc build tag:
//
//	go build -tags vlc ./...
package vlc

import (
	"fmt"
	"sync"
	"time"

	libvlc "github.com/adrg/libvlc-go/v3"

	"github.com/go-drift/mediaview/pkg/media"
	"github.com/go-drift/mediaview/pkg/playback"
)

var (
	initOnce sync.Once
	initErr  error
)

// DefaultFlags are passed to libvlc.Init on first use.
var DefaultFlags = []string{
	"--no-video-title-show",
	"--no-osd",
	"--no-spu",
	"--network-caching=3000",
	"--file-caching=1500",
	"--quiet",
}

// Init initializes libVLC once per process. Later calls return the first result.
func Init(flags ...string) error {
	initOnce.Do(func() {
		if len(flags) == 0 {
			flags = DefaultFlags
		}
		initErr = libvlc.Init(flags...)
	})
	return initErr
}

// Shutdown releases libVLC. No Player may be used afterwards.
func Shutdown() error {
	return libvlc.Release()
}

// Factory returns a playback.Factory producing libVLC players.
func Factory() playback.Factory {
	return func() (playback.Player, error) { return New() }
}

// Player adapts a libvlc.Player.
type Player struct {
	mu       sync.Mutex
	player   *libvlc.Player
	events   []libvlc.EventID
	manager  *libvlc.EventManager
	status   playback.ItemStatus
	err      error
	likely   bool
	local    bool
	closed   bool
	nextID   int
	subs     map[int]func(playback.Event)
	stopTick map[int]chan struct{}
}

// New creates a player. Init is called with DefaultFlags if needed.
func New() (*Player, error) {
	if err := Init(); err != nil {
		return nil, fmt.Errorf("vlc: init: %w", err)
	}
	p, err := libvlc.NewPlayer()
	if err != nil {
		return nil, fmt.Errorf("vlc: new player: %w", err)
	}
	vp := &Player{
		player:   p,
		subs:     make(map[int]func(playback.Event)),
		stopTick: make(map[int]chan struct{}),
	}
	if err := vp.attach(); err != nil {
		p.Release()
		return nil, err
	}
	return vp, nil
}

func (p *Player) attach() error {
	manager, err := p.player.EventManager()
	if err != nil {
		return fmt.Errorf("vlc: event manager: %w", err)
	}
	p.manager = manager
	for _, ev := range []libvlc.Event{
		libvlc.MediaPlayerPlaying,
		libvlc.MediaPlayerLengthChanged,
		libvlc.MediaPlayerBuffering,
		libvlc.MediaPlayerEndReached,
		libvlc.MediaPlayerEncounteredError,
	} {
		id, err := manager.Attach(ev, p.onEvent, nil)
		if err != nil {
			manager.Detach(p.events...)
			return fmt.Errorf("vlc: attach event %d: %w", ev, err)
		}
		p.events = append(p.events, id)
	}
	return nil
}

func (p *Player) onEvent(ev libvlc.Event, _ interface{}) {
	switch ev {
	case libvlc.MediaPlayerPlaying, libvlc.MediaPlayerLengthChanged:
		p.mu.Lock()
		first := p.status != playback.ItemReadyToPlay
		p.status = playback.ItemReadyToPlay
		p.likely = true
		local := p.local
		p.mu.Unlock()
		if first {
			p.emit(playback.Event{Kind: playback.EventStatusChanged, Status: playback.ItemReadyToPlay})
		}
		p.emit(playback.Event{Kind: playback.EventLikelyToKeepUp})
		if local {
			if dur := p.Duration(); dur > 0 {
				p.emit(playback.Event{Kind: playback.EventBufferedChanged, Buffered: dur})
			}
		}
	case libvlc.MediaPlayerBuffering:
		p.mu.Lock()
		p.likely = false
		p.mu.Unlock()
		p.emit(playback.Event{Kind: playback.EventBufferEmpty})
	case libvlc.MediaPlayerEndReached:
		p.emit(playback.Event{Kind: playback.EventReachedEnd})
	case libvlc.MediaPlayerEncounteredError:
		err := fmt.Errorf("vlc: playback error")
		p.mu.Lock()
		p.status = playback.ItemFailed
		p.err = err
		p.mu.Unlock()
		p.emit(playback.Event{Kind: playback.EventStatusChanged, Status: playback.ItemFailed, Err: err})
	}
}

func (p *Player) emit(ev playback.Event) {
	p.mu.Lock()
	fns := make([]func(playback.Event), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Load opens location. Remote URLs stream; anything else is a file path.
func (p *Player) Load(location string) error {
	var (
		m   *libvlc.Media
		err error
	)
	remote := media.IsRemote(location)
	if remote {
		m, err = p.player.LoadMediaFromURL(location)
	} else {
		m, err = p.player.LoadMediaFromPath(location)
	}
	if err != nil {
		return fmt.Errorf("vlc: load %s: %w", location, err)
	}
	p.mu.Lock()
	p.local = !remote
	p.status = playback.ItemUnknown
	p.err = nil
	p.mu.Unlock()

	if err := m.Parse(); err != nil {
		return fmt.Errorf("vlc: parse %s: %w", location, err)
	}
	return nil
}

func (p *Player) Play() error { return p.player.Play() }

func (p *Player) Pause() error { return p.player.SetPause(true) }

func (p *Player) Seek(pos time.Duration) error {
	return p.player.SetMediaTime(int(pos.Milliseconds()))
}

func (p *Player) SetVolume(v float64) error {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return p.player.SetVolume(int(v * 100))
}

func (p *Player) Rate() float64 {
	if !p.player.IsPlaying() {
		return 0
	}
	return 1
}

func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Player) Status() playback.ItemStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Player) Duration() time.Duration {
	ms, err := p.player.MediaLength()
	if err != nil || ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func (p *Player) Position() time.Duration {
	ms, err := p.player.MediaTime()
	if err != nil || ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func (p *Player) LikelyToKeepUp() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.likely
}

func (p *Player) Subscribe(fn func(playback.Event)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *Player) AddPeriodicObserver(interval time.Duration, fn func(time.Duration)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	stop := make(chan struct{})
	p.stopTick[id] = stop
	p.mu.Unlock()

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				fn(p.Position())
			}
		}
	}()

	return func() {
		p.mu.Lock()
		if ch, ok := p.stopTick[id]; ok {
			close(ch)
			delete(p.stopTick, id)
		}
		p.mu.Unlock()
	}
}

// Close stops playback, detaches events and releases the player.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	for id, ch := range p.stopTick {
		close(ch)
		delete(p.stopTick, id)
	}
	p.subs = make(map[int]func(playback.Event))
	p.mu.Unlock()

	if p.manager != nil {
		p.manager.Detach(p.events...)
	}
	_ = p.player.Stop()
	if m, err := p.player.Media(); err == nil && m != nil {
		m.Release()
	}
	return p.player.Release()
}
