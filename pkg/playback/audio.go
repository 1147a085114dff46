package playback

import (
	"fmt"
	"sync"

	"github.com/go-drift/mediaview/pkg/errors"
	"github.com/go-drift/mediaview/pkg/logging"
)

// AudioType is the process audio category applied around playback.
type AudioType int

const (
	// AudioStandard respects the device's silent switch and mixes with others.
	AudioStandard AudioType = iota
	// AudioPlayWhenSilent plays even when the device is silenced.
	AudioPlayWhenSilent
)

func (t AudioType) String() string {
	switch t {
	case AudioStandard:
		return "standard"
	case AudioPlayWhenSilent:
		return "play-when-silent"
	default:
		return fmt.Sprintf("AudioType(%d)", int(t))
	}
}

// ParseAudioType maps a configuration name to an AudioType.
func ParseAudioType(s string) (AudioType, error) {
	switch s {
	case "", "standard":
		return AudioStandard, nil
	case "play_when_silent", "play-when-silent", "playWhenSilent":
		return AudioPlayWhenSilent, nil
	default:
		return 0, fmt.Errorf("playback: unknown audio type %q", s)
	}
}

// AudioSession applies an audio category to the process.
type AudioSession interface {
	SetCategory(AudioType) error
}

type nopSession struct{}

func (nopSession) SetCategory(AudioType) error { return nil }

// AudioPolicy decides which category is active while media plays and
// after it stops. One policy is shared by every view in a process.
type AudioPolicy struct {
	mu       sync.Mutex
	session  AudioSession
	whenPlay AudioType
	whenStop AudioType
	applied  AudioType
	hasSet   bool
	log      logging.Logger
}

// NewAudioPolicy returns a policy applying categories to session.
// A nil session makes the policy record decisions without side effects.
func NewAudioPolicy(session AudioSession, logger logging.Logger) *AudioPolicy {
	if session == nil {
		session = nopSession{}
	}
	return &AudioPolicy{session: session, log: logging.OrNoOp(logger)}
}

// SetWhenPlay sets the category applied when playback starts.
func (p *AudioPolicy) SetWhenPlay(t AudioType) {
	p.mu.Lock()
	p.whenPlay = t
	p.mu.Unlock()
}

// SetWhenStop sets the category applied when playback stops.
func (p *AudioPolicy) SetWhenStop(t AudioType) {
	p.mu.Lock()
	p.whenStop = t
	p.mu.Unlock()
}

// WhenPlay returns the category applied when playback starts.
func (p *AudioPolicy) WhenPlay() AudioType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.whenPlay
}

// WhenStop returns the category applied when playback stops.
func (p *AudioPolicy) WhenStop() AudioType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.whenStop
}

// Current returns the last applied category.
func (p *AudioPolicy) Current() AudioType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applied
}

// ApplyPlaying switches to the play category.
func (p *AudioPolicy) ApplyPlaying() {
	p.mu.Lock()
	t := p.whenPlay
	p.mu.Unlock()
	p.apply(t)
}

// ApplyStopped switches to the stop category.
func (p *AudioPolicy) ApplyStopped() {
	p.mu.Lock()
	t := p.whenStop
	p.mu.Unlock()
	p.apply(t)
}

func (p *AudioPolicy) apply(t AudioType) {
	p.mu.Lock()
	if p.hasSet && p.applied == t {
		p.mu.Unlock()
		return
	}
	session := p.session
	p.mu.Unlock()

	if err := session.SetCategory(t); err != nil {
		errors.Report(errors.New("playback.AudioPolicy", errors.KindPlayback, "", err))
		return
	}

	p.mu.Lock()
	p.applied = t
	p.hasSet = true
	p.mu.Unlock()
	p.log.Debug("audio category applied", "category", t.String())
}
