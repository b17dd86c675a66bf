// Package resync joins the network, fetches the time and updates the local clock.
package resync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"timebeacon/hal"
	"timebeacon/kernel"
	"timebeacon/metrics"
	"timebeacon/proto"
	"timebeacon/services/credentials"
	"timebeacon/services/timecache"
)

var (
	ErrNoCredentials = errors.New("resync: no credentials")
	ErrJoin          = errors.New("resync: join failed")
	ErrJoinTimeout   = errors.New("resync: join timed out")
	ErrQuery         = errors.New("resync: time query failed")
)

// Config controls one resync attempt.
type Config struct {
	Server       string
	Zone         *time.Location
	PollInterval time.Duration
	MaxPolls     int
}

// Resynchronizer is the only user of the WiFi join/leave calls.
//
// Run is not safe for concurrent use; State may be read from any goroutine.
type Resynchronizer struct {
	wifi   hal.WiFi
	clock  hal.Clock
	cache  *timecache.Cache
	source TimeSource
	creds  credentials.Credentials
	cfg    Config
	log    *zap.Logger

	notify func(Event)

	mu    sync.Mutex
	state State
}

// New returns an idle resynchronizer.
func New(
	wifi hal.WiFi,
	clock hal.Clock,
	cache *timecache.Cache,
	source TimeSource,
	creds credentials.Credentials,
	cfg Config,
	log *zap.Logger,
) *Resynchronizer {
	if cfg.Zone == nil {
		cfg.Zone = time.UTC
	}
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resynchronizer{
		wifi:   wifi,
		clock:  clock,
		cache:  cache,
		source: source,
		creds:  creds,
		cfg:    cfg,
		log:    log,
	}
}

// SetNotify installs fn to observe state changes and join polls.
// It must be called before Run.
func (r *Resynchronizer) SetNotify(fn func(Event)) { r.notify = fn }

// State returns the current state.
func (r *Resynchronizer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resynchronizer) enter(s State, ev Event) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
	if r.notify != nil {
		ev.State = s
		ev.SSID = r.creds.SSID
		r.notify(ev)
	}
}

// Run performs one join, query and leave sequence and returns to Idle.
//
// On success the local clock is set before the cache is written. Every
// path that began a join leaves the network before returning. Errors are
// for diagnostics only.
func (r *Resynchronizer) Run(ctx context.Context) error {
	if r.creds.Empty() {
		metrics.ResyncFailure(metrics.ReasonNoCredentials)
		r.log.Warn("resync skipped", zap.Error(ErrNoCredentials))
		return ErrNoCredentials
	}
	metrics.ResyncAttempt()
	defer r.enter(StateIdle, Event{})

	r.log.Info("joining network", zap.String("ssid", r.creds.SSID))
	r.enter(StateConnecting, Event{})
	if err := r.wifi.Begin(r.creds.SSID, r.creds.Passphrase); err != nil {
		err = fmt.Errorf("%w: %w", ErrJoin, err)
		return r.fail(metrics.ReasonJoin, err)
	}

	connected := false
	for poll := 1; poll <= r.cfg.MaxPolls; poll++ {
		if err := kernel.Sleep(ctx, r.cfg.PollInterval); err != nil {
			r.disconnect()
			return err
		}
		r.enter(StateConnecting, Event{Poll: poll})
		if r.wifi.Connected() {
			connected = true
			break
		}
	}
	if !connected {
		err := fmt.Errorf("%w after %d polls", ErrJoinTimeout, r.cfg.MaxPolls)
		return r.fail(metrics.ReasonJoin, err)
	}
	r.enter(StateConnected, Event{})

	r.enter(StateQuerying, Event{})
	t, err := r.source.Query(ctx, r.cfg.Server)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrQuery, r.cfg.Server, err)
		r.log.Warn("time query failed", zap.String("server", r.cfg.Server), zap.Error(err))
		metrics.ResyncFailure(metrics.ReasonQuery)
		r.enter(StateQuerying, Event{Err: err})
		r.disconnect()
		return err
	}

	t = t.In(r.cfg.Zone)
	if err := r.clock.Set(t); err != nil {
		r.log.Warn("set local clock", zap.Error(err))
	}
	r.cache.Write(proto.FromTime(t))
	metrics.ResyncSuccess(t)
	r.log.Info("time synchronized", zap.String("server", r.cfg.Server), zap.Time("time", t))
	r.enter(StateQuerying, Event{Time: t})

	r.disconnect()
	return nil
}

func (r *Resynchronizer) fail(reason string, err error) error {
	r.log.Warn("join failed", zap.String("ssid", r.creds.SSID), zap.Error(err))
	metrics.ResyncFailure(reason)
	r.enter(StateFailed, Event{Err: err})
	r.disconnect()
	return err
}

func (r *Resynchronizer) disconnect() {
	r.enter(StateDisconnecting, Event{})
	if err := r.wifi.Disconnect(); err != nil {
		r.log.Warn("leave network", zap.Error(err))
	}
}
