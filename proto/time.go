package proto

import (
	"fmt"
	"time"
)

// WallClockTime is a calendar time-of-day with a fixed UTC offset tag.
//
// The zero value is the unset sentinel: no time has been obtained yet.
type WallClockTime struct {
	Year    int
	Month   int // 1-12
	Day     int
	Hour    int // 0-23
	Minute  int
	Second  int
	Weekday int // 0 = Sunday

	OffsetHours   int
	OffsetMinutes int
}

// FromTime captures t in its own location.
func FromTime(t time.Time) WallClockTime {
	_, off := t.Zone()
	return WallClockTime{
		Year:          t.Year(),
		Month:         int(t.Month()),
		Day:           t.Day(),
		Hour:          t.Hour(),
		Minute:        t.Minute(),
		Second:        t.Second(),
		Weekday:       int(t.Weekday()),
		OffsetHours:   off / 3600,
		OffsetMinutes: (off % 3600) / 60,
	}
}

// IsSet reports whether w holds a time (as opposed to the unset sentinel).
func (w WallClockTime) IsSet() bool {
	return w != WallClockTime{}
}

// Offset returns the UTC offset as a duration.
func (w WallClockTime) Offset() time.Duration {
	return time.Duration(w.OffsetHours)*time.Hour + time.Duration(w.OffsetMinutes)*time.Minute
}

// Time converts w back to a time.Time in a fixed zone.
//
// The unset sentinel maps to the zero time.Time.
func (w WallClockTime) Time() time.Time {
	if !w.IsSet() {
		return time.Time{}
	}
	loc := time.FixedZone("", int(w.Offset()/time.Second))
	return time.Date(w.Year, time.Month(w.Month), w.Day, w.Hour, w.Minute, w.Second, 0, loc)
}

// String formats w as YYYY-MM-DDTHH:MM:SS+hh:mm.
func (w WallClockTime) String() string {
	sign := byte('+')
	oh, om := w.OffsetHours, w.OffsetMinutes
	if oh < 0 || om < 0 {
		sign = '-'
		oh, om = absInt(oh), absInt(om)
	}
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d%c%02d:%02d",
		w.Year, w.Month, w.Day, w.Hour, w.Minute, w.Second, sign, oh, om)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
