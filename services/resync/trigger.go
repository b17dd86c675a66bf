package resync

import (
	"fmt"

	"timebeacon/proto"
)

// Trigger is the time of day at which a resync is due.
type Trigger struct {
	Hour, Minute, Second int
}

// DefaultTrigger fires at 02:00:00 local time.
var DefaultTrigger = Trigger{Hour: 2}

// Due reports whether w falls exactly on the trigger second.
//
// Sampling is coarse; a tick that skips the second misses that day's resync.
// Unset time is never due.
func (t Trigger) Due(w proto.WallClockTime) bool {
	if !w.IsSet() {
		return false
	}
	return w.Hour == t.Hour && w.Minute == t.Minute && w.Second == t.Second
}

func (t Trigger) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}
