package hal

import (
	"sync"
	"time"
)

// minPlausibleYear is the earliest year a set clock can read.
const minPlausibleYear = 2016

func plausible(t time.Time) bool {
	return t.Year() >= minPlausibleYear
}

// softClock is a software clock on top of the OS clock.
//
// Set records an offset instead of changing the OS clock.
type softClock struct {
	mu     sync.Mutex
	offset time.Duration
	now    func() time.Time
}

func newSoftClock() *softClock {
	return &softClock{now: time.Now}
}

func (c *softClock) Now() (time.Time, error) {
	c.mu.Lock()
	t := c.now().Add(c.offset)
	c.mu.Unlock()
	if !plausible(t) {
		return time.Time{}, ErrClockNotSet
	}
	return t, nil
}

func (c *softClock) Set(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = t.Sub(c.now())
	return nil
}
