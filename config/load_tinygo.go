//go:build tinygo

package config

// Load returns the compiled-in defaults; the device has no environment.
func Load() (Config, error) {
	return Default(), nil
}
