//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

type hostHAL struct {
	logger  *hostLogger
	led     *hostLED
	fb      *hostFramebuffer
	clock   *softClock
	wifi    *hostWiFi
	radio   *hostRadio
	storage *dirStorage
}

// New returns a host HAL implementation.
//
// The framebuffer matches the 320x240 panel of the reference board.
func New() HAL {
	return newHost("")
}

func newHost(dataDir string) *hostHAL {
	logger := &hostLogger{w: os.Stdout}
	storage := newDirStorage()
	if dataDir != "" {
		storage.root = dataDir
	}
	return &hostHAL{
		logger:  logger,
		led:     &hostLED{},
		fb:      newHostFramebuffer(320, 240),
		clock:   newSoftClock(),
		wifi:    &hostWiFi{logger: logger},
		radio:   &hostRadio{logger: logger},
		storage: storage,
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Clock() Clock     { return h.clock }
func (h *hostHAL) WiFi() WiFi       { return h.wifi }
func (h *hostHAL) Radio() Radio     { return h.radio }
func (h *hostHAL) Storage() Storage { return h.storage }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// hostLED mirrors the status LED; the window shows it as a title marker.
type hostLED struct {
	on atomic.Bool
}

func (l *hostLED) High() { l.on.Store(true) }
func (l *hostLED) Low()  { l.on.Store(false) }
