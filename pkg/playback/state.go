package playback

// State is the lifecycle state of a Session.
//
//	Idle ──Start──► Loading ──ready──► Ready ──Play──► Playing ◄──► Paused
//	                   │                                  │
//	                   └──────────── failure ─────────────┴──► Failed
//
// Failed is terminal for the session.
type State int

const (
	// StateIdle is a session that has not started or has been closed.
	StateIdle State = iota
	// StateLoading is waiting for the item to become ready.
	StateLoading
	// StateReady can start playback.
	StateReady
	// StatePlaying is actively playing.
	StatePlaying
	// StatePaused is paused and can resume.
	StatePaused
	// StateFailed can never play.
	StateFailed
)

// String returns a human-readable label for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
