//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is the simulated LCD. Drawing happens in back; Present
// copies it to front, which is all the window ever shows.
type hostFramebuffer struct {
	width  int
	height int
	back   []byte

	mu    sync.Mutex
	front []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	n := width * 2 * height
	return &hostFramebuffer{
		width:  width,
		height: height,
		back:   make([]byte, n),
		front:  make([]byte, n),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.width * 2 }
func (f *hostFramebuffer) Buffer() []byte      { return f.back }

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	fillRGB565(f.back, r, g, b)
}

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	copy(f.front, f.back)
	f.mu.Unlock()
	return nil
}

// snapshotRGB565 copies the last presented frame into dst.
func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	copy(dst, f.front)
	f.mu.Unlock()
}
