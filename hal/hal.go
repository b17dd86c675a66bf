package hal

import (
	"errors"
	"net"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrClockNotSet is returned by Clock.Now before the clock has ever been set.
	ErrClockNotSet = errors.New("clock not set")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Clock is the device's local wall clock.
//
// Now fails with ErrClockNotSet until the clock holds a plausible time.
type Clock interface {
	Now() (time.Time, error)
	Set(t time.Time) error
}

// WiFi drives the station join/leave lifecycle.
//
// Begin starts a join and returns immediately; Connected is polled by the caller.
type WiFi interface {
	Begin(ssid, passphrase string) error
	Connected() bool
	Disconnect() error
	HardwareAddr() (net.HardwareAddr, error)
}

// AdvertisingType selects how peers may react to an advertisement.
type AdvertisingType uint8

const (
	// AdvertisingNonConnectable is a one-way broadcast (ADV_NONCONN_IND).
	AdvertisingNonConnectable AdvertisingType = iota + 1
	// AdvertisingScannable allows scan requests but no connections (ADV_SCAN_IND).
	AdvertisingScannable
)

func (t AdvertisingType) String() string {
	switch t {
	case AdvertisingNonConnectable:
		return "nonconn"
	case AdvertisingScannable:
		return "scan"
	default:
		return "unknown"
	}
}

// Advertisement is the record installed into the radio for one broadcast window.
type Advertisement struct {
	LocalName string
	Flags     byte
	// Payload holds length-prefixed AD structures carrying vendor data.
	Payload []byte
}

// Radio is a short-range advertising radio.
//
// Init is called once at startup; the remaining calls are owned by a single task.
type Radio interface {
	Init(name string, typ AdvertisingType) error
	SetAdvertisement(adv Advertisement) error
	Start() error
	Stop() error
}

// Storage reads small files from removable or on-board media.
type Storage interface {
	ReadFile(name string) ([]byte, error)
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Display() Display
	Clock() Clock
	WiFi() WiFi
	Radio() Radio
	Storage() Storage
}

// FormatMAC formats a hardware address as upper-case colon separated hex.
func FormatMAC(mac net.HardwareAddr) string {
	const hexDigits = "0123456789ABCDEF"
	if len(mac) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(mac)*3-1)
	for i, b := range mac {
		if i > 0 {
			buf = append(buf, ':')
		}
		buf = append(buf, hexDigits[b>>4], hexDigits[b&0x0F])
	}
	return string(buf)
}
