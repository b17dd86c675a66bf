//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"time"
)

// HostConfig controls the host runners.
type HostConfig struct {
	Headless bool
	// DataDir is where device files (ssid.txt) are looked up.
	DataDir string
	// Duration stops the headless runner after the given time (0 = run until cancelled).
	Duration time.Duration
}

// RunHeadless runs the firmware without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func(context.Context) error, cfg HostConfig) error {
	h := newHost(cfg.DataDir)
	run := newApp(h)

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}
	err := run(ctx)
	if cfg.Duration > 0 && errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
