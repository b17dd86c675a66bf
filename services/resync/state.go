package resync

import "time"

// State is the resynchronizer's position in the join/query/leave sequence.
type State uint8

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateQuerying
	StateDisconnecting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateQuerying:
		return "querying"
	case StateDisconnecting:
		return "disconnecting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event reports progress to an observer such as the display.
//
// Poll is non-zero for each join poll made while Connecting. Err is set on
// the Failed transition and on a Querying event whose query failed. Time is
// set on the Querying event that produced a new time.
type Event struct {
	State State
	SSID  string
	Poll  int
	Time  time.Time
	Err   error
}
