// Package app wires the beacon tasks together.
package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"timebeacon/config"
	"timebeacon/hal"
	"timebeacon/kernel"
	"timebeacon/logging"
	"timebeacon/proto"
	"timebeacon/services/broadcast"
	"timebeacon/services/credentials"
	"timebeacon/services/display"
	"timebeacon/services/refresher"
	"timebeacon/services/resync"
	"timebeacon/services/timecache"
)

// Option customizes an App.
type Option func(*App)

// WithTimeSource replaces the network time source.
func WithTimeSource(src resync.TimeSource) Option {
	return func(a *App) { a.source = src }
}

// WithTask adds a task supervised alongside the beacon loops.
func WithTask(t kernel.Task) Option {
	return func(a *App) { a.extra = append(a.extra, t) }
}

// WithLogger replaces the logger built from the HAL log sink.
func WithLogger(log *zap.Logger) Option {
	return func(a *App) { a.log = log }
}

// App is one beacon instance.
type App struct {
	h   hal.HAL
	cfg config.Config
	log *zap.Logger

	source resync.TimeSource
	extra  []kernel.Task

	cache     *timecache.Cache
	screen    *display.Screen
	refresher *refresher.Refresher
	broadcast *broadcast.Broadcaster
	resync    *resync.Resynchronizer
	trigger   resync.Trigger
	creds     credentials.Credentials

	// lastFired is the snapshot that last started a resync.
	lastFired proto.WallClockTime
}

// New builds the beacon on h. Nothing touches the hardware until Run.
func New(h hal.HAL, cfg config.Config, opts ...Option) *App {
	a := &App{
		h:       h,
		cfg:     cfg,
		cache:   timecache.New(),
		trigger: resync.Trigger{Hour: cfg.ResyncHour, Minute: cfg.ResyncMinute, Second: cfg.ResyncSecond},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		log, err := logging.New(h.Logger(), logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
		a.log = log
		if err != nil {
			a.log.Warn("logging setup", zap.Error(err))
		}
	}
	if a.source == nil {
		a.source = resync.NTPSource{Timeout: cfg.NTPTimeout}
	}

	var fb hal.Framebuffer
	if d := h.Display(); d != nil {
		fb = d.Framebuffer()
	}
	a.screen = display.New(fb)

	zone := cfg.Zone()
	a.refresher = refresher.New(h.Clock(), a.cache, zone, cfg.RefreshInterval, a.log.Named("refresher"))
	a.broadcast = broadcast.New(h.Radio(), h.LED(), a.cache, cfg.DeviceName, cfg.AdvertiseWindow, a.log.Named("broadcast"))
	return a
}

// Cache returns the shared time cache.
func (a *App) Cache() *timecache.Cache { return a.cache }

// Run boots the beacon and supervises its tasks until ctx ends.
func (a *App) Run(ctx context.Context) error {
	installPanicHandler(a.h, a.log)
	a.log.Info("starting", zap.String("device", a.cfg.DeviceName), zap.String("ntp", a.cfg.NTPServer))

	a.boot(ctx)

	tasks := []kernel.Task{
		{Name: "refresher", Run: a.refresher.Run},
		{Name: "main", Run: a.mainLoop},
	}

	bootStep(a.h, "radio")
	if err := a.broadcast.Init(); err != nil {
		// Without a radio the beacon still keeps and shows time.
		a.log.Error("radio unavailable", zap.Error(err))
	} else {
		tasks = append(tasks, kernel.Task{Name: "broadcast", Run: a.broadcast.Run})
	}
	tasks = append(tasks, a.extra...)
	bootStep(a.h, "running")
	return kernel.Run(ctx, a.log, tasks...)
}

func (a *App) boot(ctx context.Context) {
	bootStep(a.h, "identity")
	info := display.BootInfo{CredentialsPath: a.cfg.CredentialsPath}
	if w := a.h.WiFi(); w != nil {
		if mac, err := w.HardwareAddr(); err == nil {
			info.MAC = hal.FormatMAC(mac)
		} else {
			a.log.Warn("station mac unavailable", zap.Error(err))
		}
	}
	a.log.Info("station", zap.String("mac", info.MAC))

	bootStep(a.h, "credentials")
	creds, err := credentials.Load(a.h.Storage(), a.cfg.CredentialsPath)
	info.Credentials, info.CredentialsErr = creds, err
	if err != nil {
		a.log.Warn("credentials unavailable", zap.String("path", a.cfg.CredentialsPath), zap.Error(err))
	} else {
		a.log.Info("credentials loaded", zap.String("ssid", creds.SSID))
	}
	a.creds = creds
	a.screen.Boot(info)

	a.resync = resync.New(a.h.WiFi(), a.h.Clock(), a.cache, a.source, creds, resync.Config{
		Server:       a.cfg.NTPServer,
		Zone:         a.cfg.Zone(),
		PollInterval: a.cfg.JoinPollInterval,
		MaxPolls:     a.cfg.JoinMaxPolls,
	}, a.log.Named("resync"))
	a.resync.SetNotify(a.screen.ResyncEvent)

	if creds.Empty() {
		return
	}
	bootStep(a.h, "initial sync")
	if err := a.resync.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Warn("initial sync failed", zap.Error(err))
	}
}

func (a *App) mainLoop(ctx context.Context) error {
	for {
		a.tick(ctx)
		if err := kernel.Sleep(ctx, a.cfg.TickInterval); err != nil {
			return err
		}
	}
}

// tick runs one pass of the control loop: resync when due, then redraw.
// Samples that repeat the snapshot which last fired start no second
// resync, so one trigger second runs the sequence once.
func (a *App) tick(ctx context.Context) {
	if w := a.cache.Read(); a.trigger.Due(w) && w != a.lastFired {
		a.lastFired = w
		a.log.Info("resync due", zap.Stringer("at", a.trigger))
		if err := a.resync.Run(ctx); err != nil {
			a.log.Warn("resync failed", zap.Error(err))
		}
	}
	a.screen.ShowTime(a.cache.Read())
}
