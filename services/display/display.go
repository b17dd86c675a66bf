// Package display renders beacon status as text on the local screen.
package display

import (
	"errors"
	"sync"

	"timebeacon/hal"
	"timebeacon/proto"
	"timebeacon/services/credentials"
	"timebeacon/services/resync"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const (
	sgrRed   = "\x1b[31m"
	sgrReset = "\x1b[0m"
)

// Screen is a text console over a framebuffer. A Screen without a
// framebuffer accepts every call and draws nothing.
type Screen struct {
	mu     sync.Mutex
	fb     hal.Framebuffer
	canvas *Canvas
	t      *tinyterm.Terminal
}

// New returns a cleared screen. fb may be nil.
func New(fb hal.Framebuffer) *Screen {
	s := &Screen{fb: fb, canvas: NewCanvas(fb)}
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
	return s
}

func (s *Screen) reset() {
	if s.fb == nil {
		return
	}
	s.fb.ClearRGB(0, 0, 0)
	s.t = tinyterm.NewTerminal(s.canvas)
	s.t.Configure(&tinyterm.Config{
		Font:              &proggy.TinySZ8pt7b,
		FontHeight:        10,
		FontOffset:        6,
		UseSoftwareScroll: true,
	})
}

func (s *Screen) printf(format string, args ...any) {
	if s.t == nil {
		return
	}
	_, _ = s.t.Printf(format, args...)
}

func (s *Screen) present() {
	if s.t != nil {
		s.t.Display()
	}
}

// Clear blanks the screen.
func (s *Screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.present()
}

// Printf writes text at the cursor and presents it.
func (s *Screen) Printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printf(format, args...)
	s.present()
}

// BootInfo is what the boot screen reports.
type BootInfo struct {
	MAC             string
	CredentialsPath string
	Credentials     credentials.Credentials
	CredentialsErr  error
}

// Boot draws the station identity and credential status.
func (s *Screen) Boot(info BootInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mac := info.MAC
	if mac == "" {
		mac = "unavailable"
	}
	s.printf("MAC: %s\n", mac)

	switch err := info.CredentialsErr; {
	case err == nil:
		s.printf("%s loaded\n", info.CredentialsPath)
		s.printf("%sID: %s\n", sgrRed, info.Credentials.SSID)
		s.printf("PW: %s%s\n", info.Credentials.MaskedPassphrase(), sgrReset)
	case errors.Is(err, credentials.ErrRead):
		s.printf("%s not readable\n", info.CredentialsPath)
	default:
		s.printf("%s: %v\n", info.CredentialsPath, err)
	}
	s.present()
}

// ShowTime replaces the screen with the current time.
func (s *Screen) ShowTime(w proto.WallClockTime) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	if w.IsSet() {
		s.printf("%s", w.String())
	} else {
		s.printf("--:--:--")
	}
	s.present()
}

// ResyncEvent reports join and query progress.
func (s *Screen) ResyncEvent(ev resync.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.State {
	case resync.StateConnecting:
		if ev.Poll == 0 {
			s.reset()
			s.printf("Connecting to %s\n", ev.SSID)
		} else {
			s.printf("*")
		}
	case resync.StateConnected:
		s.printf("\nCONNECTED\n")
	case resync.StateFailed:
		s.printf("\nCONNECTION FAIL\n")
	case resync.StateQuerying:
		switch {
		case ev.Err != nil:
			s.printf("Failed to obtain time\n")
		case !ev.Time.IsZero():
			s.printf("%s\n", proto.FromTime(ev.Time))
		}
	case resync.StateIdle:
		s.reset()
	default:
		return
	}
	s.present()
}
