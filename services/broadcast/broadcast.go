// Package broadcast advertises the cached time in fixed windows.
package broadcast

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"timebeacon/hal"
	"timebeacon/kernel"
	"timebeacon/metrics"
	"timebeacon/proto"
	"timebeacon/services/timecache"
)

// Broadcaster owns the radio once started.
type Broadcaster struct {
	radio  hal.Radio
	led    hal.LED
	cache  *timecache.Cache
	name   string
	window time.Duration
	log    *zap.Logger
}

// New returns a broadcaster advertising under name for window per cycle.
// led may be nil.
func New(radio hal.Radio, led hal.LED, cache *timecache.Cache, name string, window time.Duration, log *zap.Logger) *Broadcaster {
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{radio: radio, led: led, cache: cache, name: name, window: window, log: log}
}

// Init configures the radio for one-way broadcast. Call once before Run.
func (b *Broadcaster) Init() error {
	if err := b.radio.Init(b.name, hal.AdvertisingNonConnectable); err != nil {
		return fmt.Errorf("broadcast: init radio: %w", err)
	}
	return nil
}

// Advertisement builds the record for a snapshot.
func (b *Broadcaster) Advertisement(w proto.WallClockTime) hal.Advertisement {
	return hal.Advertisement{
		LocalName: b.name,
		Flags:     proto.AdvertisementFlags,
		Payload:   proto.AdvertisementPayload(w),
	}
}

// Cycle runs one advertising window with the time read at its start.
func (b *Broadcaster) Cycle(ctx context.Context) error {
	snap := b.cache.Read()
	if err := b.radio.SetAdvertisement(b.Advertisement(snap)); err != nil {
		return fmt.Errorf("broadcast: set advertisement: %w", err)
	}
	if err := b.radio.Start(); err != nil {
		return fmt.Errorf("broadcast: start: %w", err)
	}
	if b.led != nil {
		b.led.High()
	}

	werr := kernel.Sleep(ctx, b.window)

	if b.led != nil {
		b.led.Low()
	}
	if err := b.radio.Stop(); err != nil {
		return fmt.Errorf("broadcast: stop: %w", err)
	}
	metrics.BroadcastCycle()
	return werr
}

// Run repeats Cycle until ctx is cancelled. Radio errors are logged and
// the next cycle starts after one window.
func (b *Broadcaster) Run(ctx context.Context) error {
	for {
		err := b.Cycle(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			b.log.Warn("advertising cycle failed", zap.Error(err))
			if err := kernel.Sleep(ctx, b.window); err != nil {
				return err
			}
		}
	}
}
