//go:build !tinygo

package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override the defaults.
const EnvPrefix = "BEACON_"

// Load overlays BEACON_* environment variables on the defaults.
//
// BEACON_NTP_SERVER sets ntp_server, BEACON_ADVERTISE_WINDOW=2s sets
// advertise_window, and so on. The result is validated; on error the
// defaults are returned alongside it.
func Load() (Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return Default(), fmt.Errorf("load env vars: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Default(), fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}
