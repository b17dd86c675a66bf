//go:build tinygo && bootdebug

package app

import (
	"image/color"
	"machine"
	"sync"
	"time"

	"timebeacon/hal"
	"timebeacon/services/display"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	bootDiagMu   sync.Mutex
	bootDiagStep string
	bootDiagOnce sync.Once
)

// bootStep records the boot stage, streams it over UART and USB CDC
// every 250ms, and shows it on the LCD.
func bootStep(h hal.HAL, msg string) {
	bootDiagMu.Lock()
	bootDiagStep = msg
	bootDiagMu.Unlock()

	bootDiagOnce.Do(func() { bootDiagStart(h) })

	if msg == "running" {
		return
	}
	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil {
		return
	}
	c := display.NewCanvas(fb)
	_ = c.FillRectangle(0, int16(fb.Height()-12), int16(fb.Width()), 12, color.RGBA{A: 0xFF})
	fg := color.RGBA{R: 0xFF, G: 0xFF, A: 0xFF}
	tinyfont.WriteLine(c, &proggy.TinySZ8pt7b, 0, int16(fb.Height()-3), "boot: "+msg, fg)
	_ = fb.Present()
}

func bootDiagStart(h hal.HAL) {
	l := h.Logger()
	go func() {
		for {
			bootDiagMu.Lock()
			step := bootDiagStep
			bootDiagMu.Unlock()

			line := "bootdiag: " + step
			if l != nil {
				l.WriteLineString(line)
			}
			// USB CDC lets early boot be watched without a UART adapter.
			if usb := machine.USBCDC; usb != nil {
				_, _ = usb.Write([]byte(line + "\r\n"))
			}
			time.Sleep(250 * time.Millisecond)
		}
	}()
}
