//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ili9341"
)

const (
	lcdWidth  = 320
	lcdHeight = 240
)

// lcdFramebuffer keeps a little-endian RGB565 buffer in RAM and pushes it
// to an ILI9341 panel row by row on Present.
type lcdFramebuffer struct {
	dev *ili9341.Device
	buf []byte
	row []byte
}

func initLCD() (*lcdFramebuffer, error) {
	if machine.SPI1 == nil {
		return nil, errors.New("SPI1 unavailable")
	}
	if err := machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		SDI:       machine.GP12,
		Frequency: 40_000_000,
	}); err != nil {
		return nil, err
	}

	dev := ili9341.NewSPI(machine.SPI1, machine.GP14, machine.GP13, machine.GP15)
	dev.Configure(ili9341.Config{
		Width:    lcdHeight,
		Height:   lcdWidth,
		Rotation: drivers.Rotation90,
	})

	return &lcdFramebuffer{
		dev: dev,
		buf: make([]byte, lcdWidth*lcdHeight*2),
		row: make([]byte, lcdWidth*2),
	}, nil
}

func (f *lcdFramebuffer) Width() int          { return lcdWidth }
func (f *lcdFramebuffer) Height() int         { return lcdHeight }
func (f *lcdFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *lcdFramebuffer) StrideBytes() int    { return lcdWidth * 2 }
func (f *lcdFramebuffer) Buffer() []byte      { return f.buf }

func (f *lcdFramebuffer) ClearRGB(r, g, b uint8) {
	fillRGB565(f.buf, r, g, b)
}

func (f *lcdFramebuffer) Present() error {
	stride := lcdWidth * 2
	for y := 0; y < lcdHeight; y++ {
		src := f.buf[y*stride : (y+1)*stride]
		// The panel expects big-endian pixels.
		for i := 0; i+1 < len(src); i += 2 {
			f.row[i] = src[i+1]
			f.row[i+1] = src[i]
		}
		if err := f.dev.DrawRGBBitmap8(0, int16(y), f.row, lcdWidth, 1); err != nil {
			return err
		}
	}
	return nil
}
