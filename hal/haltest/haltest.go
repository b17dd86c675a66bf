// Package haltest provides in-memory HAL doubles for tests.
package haltest

import (
	"net"
	"sync"
	"time"

	"timebeacon/hal"
)

// Clock is a settable hal.Clock.
type Clock struct {
	mu   sync.Mutex
	t    time.Time
	err  error
	sets []time.Time
}

// NewClock returns a Clock reading t.
func NewClock(t time.Time) *Clock { return &Clock{t: t} }

func (c *Clock) Now() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return time.Time{}, c.err
	}
	return c.t, nil
}

func (c *Clock) Set(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
	c.err = nil
	c.sets = append(c.sets, t)
	return nil
}

// Fail makes Now return err until the next Set.
func (c *Clock) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Sets returns every value passed to Set.
func (c *Clock) Sets() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Time(nil), c.sets...)
}

// WiFi is a scripted hal.WiFi. It reports connected once Connected has been
// polled ConnectAfter times (0 = never).
type WiFi struct {
	mu sync.Mutex

	ConnectAfter int
	BeginErr     error
	MAC          net.HardwareAddr

	ssid        string
	polls       int
	begins      int
	disconnects int
	connected   bool
}

func (w *WiFi) Begin(ssid, passphrase string) error {
	_ = passphrase
	w.mu.Lock()
	defer w.mu.Unlock()
	w.begins++
	w.ssid = ssid
	w.polls = 0
	w.connected = false
	return w.BeginErr
}

func (w *WiFi) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.polls++
	if w.ConnectAfter > 0 && w.polls >= w.ConnectAfter {
		w.connected = true
	}
	return w.connected
}

func (w *WiFi) Disconnect() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.disconnects++
	w.connected = false
	return nil
}

func (w *WiFi) HardwareAddr() (net.HardwareAddr, error) {
	if w.MAC == nil {
		return nil, hal.ErrNotImplemented
	}
	return w.MAC, nil
}

// Polls returns how many times Connected was called since the last Begin.
func (w *WiFi) Polls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polls
}

// Begins returns how many joins were started.
func (w *WiFi) Begins() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.begins
}

// Disconnects returns how many times Disconnect was called.
func (w *WiFi) Disconnects() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.disconnects
}

// SSID returns the SSID passed to the last Begin.
func (w *WiFi) SSID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ssid
}

// Radio records advertising activity. Init fails with InitErr when set.
type Radio struct {
	mu sync.Mutex

	Name    string
	Type    hal.AdvertisingType
	InitErr error

	installed   []hal.Advertisement
	starts      int
	stops       int
	advertising bool
	onStart     func(hal.Advertisement)
}

func (r *Radio) Init(name string, typ hal.AdvertisingType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.InitErr != nil {
		return r.InitErr
	}
	r.Name = name
	r.Type = typ
	return nil
}

func (r *Radio) SetAdvertisement(adv hal.Advertisement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	adv.Payload = append([]byte(nil), adv.Payload...)
	r.installed = append(r.installed, adv)
	return nil
}

func (r *Radio) Start() error {
	r.mu.Lock()
	r.starts++
	r.advertising = true
	fn := r.onStart
	var last hal.Advertisement
	if n := len(r.installed); n > 0 {
		last = r.installed[n-1]
	}
	r.mu.Unlock()
	if fn != nil {
		fn(last)
	}
	return nil
}

func (r *Radio) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
	r.advertising = false
	return nil
}

// OnStart registers fn to run after each Start with the installed record.
func (r *Radio) OnStart(fn func(hal.Advertisement)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onStart = fn
}

// Installed returns every advertisement passed to SetAdvertisement.
func (r *Radio) Installed() []hal.Advertisement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hal.Advertisement(nil), r.installed...)
}

// Counts returns the number of Start and Stop calls.
func (r *Radio) Counts() (starts, stops int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts, r.stops
}

// Advertising reports whether Start was called without a matching Stop.
func (r *Radio) Advertising() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.advertising
}

// Storage serves files from a map.
type Storage map[string][]byte

func (s Storage) ReadFile(name string) ([]byte, error) {
	b, ok := s[name]
	if !ok {
		return nil, hal.ErrNotImplemented
	}
	return b, nil
}

// Logger collects log lines.
type Logger struct {
	mu    sync.Mutex
	lines []string
}

func (l *Logger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *Logger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

// Lines returns the collected lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// LED counts transitions.
type LED struct {
	mu   sync.Mutex
	On   bool
	Ups  int
	Down int
}

func (l *LED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.On = true
	l.Ups++
}

func (l *LED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.On = false
	l.Down++
}

// Framebuffer is an RGB565 buffer that counts presents.
type Framebuffer struct {
	W, H     int
	buf      []byte
	mu       sync.Mutex
	presents int
}

// NewFramebuffer allocates a w x h framebuffer.
func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{W: w, H: h, buf: make([]byte, w*h*2)}
}

func (f *Framebuffer) Width() int              { return f.W }
func (f *Framebuffer) Height() int             { return f.H }
func (f *Framebuffer) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *Framebuffer) StrideBytes() int        { return f.W * 2 }
func (f *Framebuffer) Buffer() []byte          { return f.buf }

func (f *Framebuffer) ClearRGB(r, g, b uint8) {
	pixel := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = byte(pixel)
		f.buf[i+1] = byte(pixel >> 8)
	}
}

func (f *Framebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presents++
	return nil
}

// Presents returns how many times Present was called.
func (f *Framebuffer) Presents() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presents
}

// Display wraps a Framebuffer.
type Display struct{ FB hal.Framebuffer }

func (d Display) Framebuffer() hal.Framebuffer { return d.FB }

// HAL bundles the doubles into a hal.HAL.
type HAL struct {
	Log   *Logger
	Led   *LED
	Disp  Display
	Clk   *Clock
	Net   *WiFi
	Radi  *Radio
	Store Storage
}

// New returns a HAL with a 320x240 framebuffer and a clock reading t.
func New(t time.Time) *HAL {
	return &HAL{
		Log:   &Logger{},
		Led:   &LED{},
		Disp:  Display{FB: NewFramebuffer(320, 240)},
		Clk:   NewClock(t),
		Net:   &WiFi{ConnectAfter: 1},
		Radi:  &Radio{},
		Store: Storage{},
	}
}

func (h *HAL) Logger() hal.Logger   { return h.Log }
func (h *HAL) LED() hal.LED         { return h.Led }
func (h *HAL) Display() hal.Display { return h.Disp }
func (h *HAL) Clock() hal.Clock     { return h.Clk }
func (h *HAL) WiFi() hal.WiFi       { return h.Net }
func (h *HAL) Radio() hal.Radio     { return h.Radi }
func (h *HAL) Storage() hal.Storage { return h.Store }

var _ hal.HAL = (*HAL)(nil)
