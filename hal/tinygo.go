//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"machine"
)

type tinyGoHAL struct {
	logger  *uartLogger
	led     *pinLED
	fb      Framebuffer
	clock   tinyGoClock
	wifi    WiFi
	radio   Radio
	storage Storage
}

// New returns an RP2040/RP2350 HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// LCD: ILI9341 on SPI1 (GP10-GP15). SD card: SPI0 (GP16-GP19).
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	var fb Framebuffer = &stubFramebuffer{w: 320, h: 240, format: PixelFormatRGB565}
	if lcd, err := initLCD(); err == nil {
		fb = lcd
	} else {
		logger.WriteLineString("hal: lcd: " + err.Error())
	}

	var storage Storage = nullStorage{}
	if sd, err := initSD(); err == nil {
		storage = sd
	} else {
		logger.WriteLineString("hal: sd: " + err.Error())
	}

	return &tinyGoHAL{
		logger:  logger,
		led:     &pinLED{pin: ledPin},
		fb:      fb,
		wifi:    newBoardWiFi(),
		radio:   newBLERadio(),
		storage: storage,
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Clock() Clock     { return h.clock }
func (h *tinyGoHAL) WiFi() WiFi       { return h.wifi }
func (h *tinyGoHAL) Radio() Radio     { return h.radio }
func (h *tinyGoHAL) Storage() Storage { return h.storage }
