package domain

// LoopMode represents the continuation policy applied when a track completes naturally.
type LoopMode int

const (
	LoopModeOff   LoopMode = iota // Default: advance and finish at the end
	LoopModeTrack                 // Replay the current track
	LoopModeQueue                 // Wrap to the start of the queue
)

// String returns a human-readable representation of the loop mode.
func (m LoopMode) String() string {
	switch m {
	case LoopModeTrack:
		return "track"
	case LoopModeQueue:
		return "queue"
	default:
		return "off"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m LoopMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Next returns the mode that follows m in the Off → Track → Queue → Off cycle.
func (m LoopMode) Next() LoopMode {
	switch m {
	case LoopModeOff:
		return LoopModeTrack
	case LoopModeTrack:
		return LoopModeQueue
	default:
		return LoopModeOff
	}
}

// ParseLoopMode converts a string to domain.LoopMode.
// The second return value is false for unrecognized input.
func ParseLoopMode(s string) (LoopMode, bool) {
	switch s {
	case "off", "none":
		return LoopModeOff, true
	case "track", "song":
		return LoopModeTrack, true
	case "queue":
		return LoopModeQueue, true
	default:
		return LoopModeOff, false
	}
}
