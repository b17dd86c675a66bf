//go:build tinygo && baremetal && !rp2040 && !rp2350

package hal

import "machine"

type genericHAL struct {
	logger *serialLogger
	led    *pinLED
	fb     Framebuffer
	clock  tinyGoClock
	wifi   WiFi
	radio  Radio
}

// New returns a HAL for boards without a dedicated pin map: UART log,
// status LED, BLE and (where probed) WiFi. There is no LCD or SD card.
func New() HAL {
	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return &genericHAL{
		logger: &serialLogger{w: machine.Serial},
		led:    &pinLED{pin: ledPin},
		fb:     &stubFramebuffer{w: 320, h: 240, format: PixelFormatRGB565},
		wifi:   newBoardWiFi(),
		radio:  newBLERadio(),
	}
}

func (h *genericHAL) Logger() Logger   { return h.logger }
func (h *genericHAL) LED() LED         { return h.led }
func (h *genericHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *genericHAL) Clock() Clock     { return h.clock }
func (h *genericHAL) WiFi() WiFi       { return h.wifi }
func (h *genericHAL) Radio() Radio     { return h.radio }
func (h *genericHAL) Storage() Storage { return nullStorage{} }

// serialLogger writes to the runtime console (USB CDC or UART, per board).
type serialLogger struct {
	w interface{ WriteByte(byte) error }
}

func (l *serialLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		_ = l.w.WriteByte(s[i])
	}
	_ = l.w.WriteByte('\r')
	_ = l.w.WriteByte('\n')
}

func (l *serialLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		_ = l.w.WriteByte(b[i])
	}
	_ = l.w.WriteByte('\r')
	_ = l.w.WriteByte('\n')
}
