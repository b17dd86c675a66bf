// Package timecache holds the latest wall-clock reading shared by the beacon tasks.
package timecache

import (
	"sync"

	"timebeacon/proto"
)

// Cache is a single-slot store for the current wall-clock time.
//
// Write stores an authoritative time (a network sync) and advances the
// generation. WriteIf stores a derived time (a local clock sample) only if
// no Write landed since the sample's generation was taken, so a sample
// read before a sync can never replace the synced time.
//
// The zero value is ready to use and holds the unset time.
type Cache struct {
	mu  sync.Mutex
	t   proto.WallClockTime
	gen uint64
}

// New returns an empty cache.
func New() *Cache { return &Cache{} }

// Read returns a copy of the cached time.
func (c *Cache) Read() proto.WallClockTime {
	c.mu.Lock()
	t := c.t
	c.mu.Unlock()
	return t
}

// Write replaces the cached time and advances the generation.
func (c *Cache) Write(t proto.WallClockTime) {
	c.mu.Lock()
	c.t = t
	c.gen++
	c.mu.Unlock()
}

// Generation returns the count of Write calls so far. Take it before
// reading the source that feeds WriteIf.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// WriteIf replaces the cached time unless a Write happened after gen was
// taken. It reports whether t was stored.
func (c *Cache) WriteIf(gen uint64, t proto.WallClockTime) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.t = t
	return true
}
