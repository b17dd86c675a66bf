//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"timebeacon/app"
	"timebeacon/config"
	"timebeacon/hal"
	"timebeacon/internal/buildinfo"
	"timebeacon/kernel"
	"timebeacon/metrics"
)

func main() {
	cfg, cfgErr := config.Load()

	var host hal.HostConfig
	var showVersion bool
	flag.BoolVar(&host.Headless, "headless", false, "Run without a window.")
	flag.StringVar(&host.DataDir, "data-dir", "", "Directory holding ssid.txt (default $BEACON_DATA_DIR or .).")
	flag.DurationVar(&host.Duration, "duration", 0, "Stop after this long in headless mode (0 = run until interrupted).")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address (empty = off).")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also write JSON logs to this rotating file.")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error).")
	flag.BoolVar(&showVersion, "version", false, "Print the build version and exit.")
	flag.Parse()

	if showVersion {
		fmt.Println(buildinfo.String())
		return
	}
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", cfgErr)
	}

	var opts []app.Option
	if cfg.MetricsAddr != "" {
		addr := cfg.MetricsAddr
		opts = append(opts, app.WithTask(kernel.Task{
			Name: "metrics",
			Run:  func(ctx context.Context) error { return metrics.Serve(ctx, addr) },
		}))
	}
	newApp := func(h hal.HAL) func(context.Context) error {
		return app.New(h, cfg, opts...).Run
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	if host.Headless {
		err = hal.RunHeadless(ctx, newApp, host)
	} else {
		err = hal.RunWindow(ctx, newApp, host)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
