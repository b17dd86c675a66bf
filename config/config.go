// Package config holds the beacon's compiled-in settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid is returned by Validate for a setting that cannot be used.
var ErrInvalid = errors.New("config: invalid")

// Config holds every tunable the firmware reads at boot.
type Config struct {
	// NTP server queried during a resync.
	NTPServer  string        `koanf:"ntp_server"`
	NTPTimeout time.Duration `koanf:"ntp_timeout"`

	// Fixed offset from UTC; no DST.
	UTCOffsetHours   int `koanf:"utc_offset_hours"`
	UTCOffsetMinutes int `koanf:"utc_offset_minutes"`

	RefreshInterval time.Duration `koanf:"refresh_interval"`
	TickInterval    time.Duration `koanf:"tick_interval"`
	AdvertiseWindow time.Duration `koanf:"advertise_window"`

	JoinPollInterval time.Duration `koanf:"join_poll_interval"`
	JoinMaxPolls     int           `koanf:"join_max_polls"`

	ResyncHour   int `koanf:"resync_hour"`
	ResyncMinute int `koanf:"resync_minute"`
	ResyncSecond int `koanf:"resync_second"`

	DeviceName      string `koanf:"device_name"`
	CredentialsPath string `koanf:"credentials_path"`

	LogLevel string `koanf:"log_level"`
	// LogFile enables a rotating log file on hosts that support it.
	LogFile string `koanf:"log_file"`
	// MetricsAddr enables the metrics listener on hosts that support it.
	MetricsAddr string `koanf:"metrics_addr"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		NTPServer:  "ntp.nict.jp",
		NTPTimeout: 5 * time.Second,

		UTCOffsetHours: 9,

		RefreshInterval: 500 * time.Millisecond,
		TickInterval:    500 * time.Millisecond,
		AdvertiseWindow: 4 * time.Second,

		JoinPollInterval: 500 * time.Millisecond,
		JoinMaxPolls:     20,

		ResyncHour: 2,

		DeviceName:      "TimeBeacon",
		CredentialsPath: "/ssid.txt",

		LogLevel: "info",
	}
}

// Zone returns the fixed zone built from the configured offset.
func (c Config) Zone() *time.Location {
	secs := c.UTCOffsetHours*3600 + c.UTCOffsetMinutes*60
	if c.UTCOffsetHours < 0 {
		secs = c.UTCOffsetHours*3600 - c.UTCOffsetMinutes*60
	}
	return time.FixedZone(zoneName(c.UTCOffsetHours, c.UTCOffsetMinutes), secs)
}

func zoneName(h, m int) string {
	sign := '+'
	if h < 0 {
		sign = '-'
		h = -h
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, h, m)
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.NTPServer) == "":
		return fmt.Errorf("%w: ntp_server is empty", ErrInvalid)
	case c.NTPTimeout <= 0:
		return fmt.Errorf("%w: ntp_timeout %v", ErrInvalid, c.NTPTimeout)
	case c.UTCOffsetHours < -12 || c.UTCOffsetHours > 14:
		return fmt.Errorf("%w: utc_offset_hours %d", ErrInvalid, c.UTCOffsetHours)
	case c.UTCOffsetMinutes < 0 || c.UTCOffsetMinutes > 59:
		return fmt.Errorf("%w: utc_offset_minutes %d", ErrInvalid, c.UTCOffsetMinutes)
	case c.RefreshInterval <= 0:
		return fmt.Errorf("%w: refresh_interval %v", ErrInvalid, c.RefreshInterval)
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick_interval %v", ErrInvalid, c.TickInterval)
	case c.AdvertiseWindow <= 0:
		return fmt.Errorf("%w: advertise_window %v", ErrInvalid, c.AdvertiseWindow)
	case c.JoinPollInterval <= 0:
		return fmt.Errorf("%w: join_poll_interval %v", ErrInvalid, c.JoinPollInterval)
	case c.JoinMaxPolls <= 0:
		return fmt.Errorf("%w: join_max_polls %d", ErrInvalid, c.JoinMaxPolls)
	case c.ResyncHour < 0 || c.ResyncHour > 23:
		return fmt.Errorf("%w: resync_hour %d", ErrInvalid, c.ResyncHour)
	case c.ResyncMinute < 0 || c.ResyncMinute > 59:
		return fmt.Errorf("%w: resync_minute %d", ErrInvalid, c.ResyncMinute)
	case c.ResyncSecond < 0 || c.ResyncSecond > 59:
		return fmt.Errorf("%w: resync_second %d", ErrInvalid, c.ResyncSecond)
	case c.DeviceName == "":
		return fmt.Errorf("%w: device_name is empty", ErrInvalid)
	case len(c.DeviceName) > 29:
		// Flags (3) plus the complete local name must fit next to the payload.
		return fmt.Errorf("%w: device_name longer than 29 bytes", ErrInvalid)
	case c.CredentialsPath == "":
		return fmt.Errorf("%w: credentials_path is empty", ErrInvalid)
	}
	return nil
}
