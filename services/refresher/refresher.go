// Package refresher keeps the time cache in step with the local clock.
package refresher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"timebeacon/hal"
	"timebeacon/kernel"
	"timebeacon/metrics"
	"timebeacon/proto"
	"timebeacon/services/timecache"
)

// Refresher samples a clock at a fixed interval and writes the cache.
type Refresher struct {
	clock    hal.Clock
	cache    *timecache.Cache
	zone     *time.Location
	interval time.Duration
	log      *zap.Logger

	skipping bool
}

// New returns a refresher that reports times in zone.
func New(clock hal.Clock, cache *timecache.Cache, zone *time.Location, interval time.Duration, log *zap.Logger) *Refresher {
	if zone == nil {
		zone = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Refresher{clock: clock, cache: cache, zone: zone, interval: interval, log: log}
}

// Step takes one sample. It reports false when the clock could not be read
// or a network sync wrote the cache while the clock was being read; the
// cache then keeps its current value.
func (r *Refresher) Step() bool {
	gen := r.cache.Generation()
	t, err := r.clock.Now()
	if err != nil {
		metrics.RefreshSkipped()
		if !r.skipping {
			r.log.Debug("local clock unavailable", zap.Error(err))
			r.skipping = true
		}
		return false
	}
	r.skipping = false
	return r.cache.WriteIf(gen, proto.FromTime(t.In(r.zone)))
}

// Run samples until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	for {
		r.Step()
		if err := kernel.Sleep(ctx, r.interval); err != nil {
			return err
		}
	}
}
