//go:build tinygo && baremetal && !softdevice && !ninafw

package hal

func newBLERadio() Radio { return nullRadio{} }
