// Package logging builds zap loggers that write to the HAL log sink.
package logging

import (
	"bytes"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"timebeacon/hal"
)

// Options selects the level and optional file output.
type Options struct {
	Level string
	// File, when non-empty, adds a rotating JSON log file on hosts.
	File string
}

// New returns a logger writing console-encoded lines to sink.
func New(sink hal.Logger, opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		lvl, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return zap.NewNop(), fmt.Errorf("logging: %w", err)
		}
		level = lvl
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), NewLineSyncer(sink), level)

	if opts.File != "" {
		fc, err := fileCore(opts.File, level)
		if err != nil {
			return zap.New(core), err
		}
		core = zapcore.NewTee(core, fc)
	}
	return zap.New(core), nil
}

// lineSyncer splits encoder output into lines for a hal.Logger.
type lineSyncer struct {
	mu   sync.Mutex
	sink hal.Logger
}

// NewLineSyncer adapts sink to a zapcore.WriteSyncer.
func NewLineSyncer(sink hal.Logger) zapcore.WriteSyncer {
	return &lineSyncer{sink: sink}
}

func (w *lineSyncer) Write(p []byte) (int, error) {
	if w.sink == nil {
		return len(p), nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte{'\n'}) {
		w.sink.WriteLineBytes(line)
	}
	return len(p), nil
}

func (w *lineSyncer) Sync() error { return nil }
