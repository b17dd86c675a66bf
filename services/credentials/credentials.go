// Package credentials loads the WiFi station credentials file.
//
// The file is a JSON object: {"ssid": "...", "pass": "..."}.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"timebeacon/hal"
)

const (
	MaxSSIDLen       = 32
	MaxPassphraseLen = 64
)

var (
	ErrRead      = errors.New("credentials: read failed")
	ErrMalformed = errors.New("credentials: malformed")
	ErrTooLong   = errors.New("credentials: field too long")
	ErrEmptySSID = errors.New("credentials: empty ssid")
)

// Credentials identify the network joined during a resync.
type Credentials struct {
	SSID       string `json:"ssid"`
	Passphrase string `json:"pass"`
}

// Empty reports whether no network is configured.
func (c Credentials) Empty() bool { return c.SSID == "" }

// MaskedPassphrase returns one '*' per passphrase byte.
func (c Credentials) MaskedPassphrase() string {
	return strings.Repeat("*", len(c.Passphrase))
}

// Validate checks the length limits of the radio firmware.
func (c Credentials) Validate() error {
	if c.SSID == "" {
		return ErrEmptySSID
	}
	if len(c.SSID) > MaxSSIDLen {
		return fmt.Errorf("%w: ssid is %d bytes, max %d", ErrTooLong, len(c.SSID), MaxSSIDLen)
	}
	if len(c.Passphrase) > MaxPassphraseLen {
		return fmt.Errorf("%w: pass is %d bytes, max %d", ErrTooLong, len(c.Passphrase), MaxPassphraseLen)
	}
	return nil
}

// Parse decodes and validates a credentials file.
func Parse(b []byte) (Credentials, error) {
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := c.Validate(); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

// Marshal encodes c in the on-card format.
func Marshal(c Credentials) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Load reads path from storage. On any failure the returned credentials
// are empty and the error says why.
func Load(storage hal.Storage, path string) (Credentials, error) {
	if storage == nil {
		return Credentials{}, fmt.Errorf("%w: %s: %w", ErrRead, path, hal.ErrNotImplemented)
	}
	b, err := storage.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return Parse(b)
}
