//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"runtime"
)

type tinyGoHostHAL struct {
	logger  *tinyGoHostLogger
	led     *tinyGoHostLED
	fb      *tinyGoHostFramebuffer
	clock   *softClock
	storage *dirStorage
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no
// radio or WiFi; the beacon still keeps time and renders it.
func New() HAL {
	l := &tinyGoHostLogger{}
	return &tinyGoHostHAL{
		logger:  l,
		led:     &tinyGoHostLED{logger: l},
		fb:      newTinyGoHostFramebuffer(320, 240),
		clock:   newSoftClock(),
		storage: newDirStorage(),
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHostHAL) LED() LED         { return h.led }
func (h *tinyGoHostHAL) Display() Display { return tinyGoHostDisplay{fb: h.fb} }
func (h *tinyGoHostHAL) Clock() Clock     { return h.clock }
func (h *tinyGoHostHAL) WiFi() WiFi       { return nullWiFi{} }
func (h *tinyGoHostHAL) Radio() Radio     { return nullRadio{} }
func (h *tinyGoHostHAL) Storage() Storage { return h.storage }

type tinyGoHostDisplay struct {
	fb Framebuffer
}

func (d tinyGoHostDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostLED struct {
	logger *tinyGoHostLogger
}

func (l *tinyGoHostLED) High() {
	l.logger.WriteLineString(fmt.Sprintf("led: HIGH (tinygo/%s)", runtime.GOOS))
}

func (l *tinyGoHostLED) Low() {
	l.logger.WriteLineString(fmt.Sprintf("led: LOW (tinygo/%s)", runtime.GOOS))
}

type tinyGoHostFramebuffer struct {
	w, h int
	buf  []byte
}

func newTinyGoHostFramebuffer(w, h int) *tinyGoHostFramebuffer {
	return &tinyGoHostFramebuffer{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *tinyGoHostFramebuffer) Width() int          { return f.w }
func (f *tinyGoHostFramebuffer) Height() int         { return f.h }
func (f *tinyGoHostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *tinyGoHostFramebuffer) StrideBytes() int    { return f.w * 2 }
func (f *tinyGoHostFramebuffer) Buffer() []byte      { return f.buf }
func (f *tinyGoHostFramebuffer) Present() error      { return nil }

func (f *tinyGoHostFramebuffer) ClearRGB(r, g, b uint8) {
	fillRGB565(f.buf, r, g, b)
}
