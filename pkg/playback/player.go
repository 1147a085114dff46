// Package playback manages the lifecycle of a playable media session.
//
// A [Player] is the platform capability (AVPlayer, ExoPlayer, libVLC). A
// [Session] owns one Player for one location and turns its notifications
// into UI-thread callbacks. Closing a session detaches every observer
// before the player is released, so a closed session never calls back.
package playback

import (
	"fmt"
	"time"
)

// ItemStatus is the readiness of the player's current item.
type ItemStatus int

const (
	// ItemUnknown means the item has not finished loading.
	ItemUnknown ItemStatus = iota
	// ItemReadyToPlay means playback can start.
	ItemReadyToPlay
	// ItemFailed means the item can never play.
	ItemFailed
)

func (s ItemStatus) String() string {
	switch s {
	case ItemUnknown:
		return "unknown"
	case ItemReadyToPlay:
		return "ready"
	case ItemFailed:
		return "failed"
	default:
		return fmt.Sprintf("ItemStatus(%d)", int(s))
	}
}

// EventKind identifies a player notification.
type EventKind int

const (
	// EventStatusChanged carries a new ItemStatus.
	EventStatusChanged EventKind = iota
	// EventBufferedChanged carries the buffered extent.
	EventBufferedChanged
	// EventBufferEmpty fires when playback has drained the buffer.
	EventBufferEmpty
	// EventBufferFull fires when the buffer cannot grow further.
	EventBufferFull
	// EventLikelyToKeepUp fires when playback should continue without stalling.
	EventLikelyToKeepUp
	// EventStalled fires when playback stops waiting for data.
	EventStalled
	// EventReachedEnd fires when playback reaches the end of the item.
	EventReachedEnd
)

func (k EventKind) String() string {
	switch k {
	case EventStatusChanged:
		return "status"
	case EventBufferedChanged:
		return "buffered"
	case EventBufferEmpty:
		return "buffer-empty"
	case EventBufferFull:
		return "buffer-full"
	case EventLikelyToKeepUp:
		return "likely-to-keep-up"
	case EventStalled:
		return "stalled"
	case EventReachedEnd:
		return "end"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a player notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind     EventKind
	Status   ItemStatus
	Buffered time.Duration
	Err      error
}

// Player is the platform playback capability. Notifications may arrive on
// any goroutine.
type Player interface {
	// Load opens location (a URL or local path) as the current item.
	Load(location string) error
	Play() error
	Pause() error
	Seek(pos time.Duration) error
	// SetVolume sets the output volume in [0, 1].
	SetVolume(v float64) error

	// Rate is zero while paused.
	Rate() float64
	Err() error
	Status() ItemStatus
	Duration() time.Duration
	Position() time.Duration
	LikelyToKeepUp() bool

	// Subscribe registers fn for notifications until cancel is called.
	Subscribe(fn func(Event)) (cancel func())
	// AddPeriodicObserver reports the position every interval until cancel is called.
	AddPeriodicObserver(interval time.Duration, fn func(pos time.Duration)) (cancel func())

	// Close releases the player.
	Close() error
}

// Factory creates a fresh Player for a session.
type Factory func() (Player, error)
