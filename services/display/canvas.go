package display

import (
	"image/color"

	"timebeacon/hal"

	"tinygo.org/x/drivers"
)

// Canvas draws into an RGB565 hal.Framebuffer. It implements the
// tinyterm and tinyfont display interfaces.
type Canvas struct {
	fb hal.Framebuffer
}

// NewCanvas wraps fb. A nil fb yields a zero-size canvas.
func NewCanvas(fb hal.Framebuffer) *Canvas {
	return &Canvas{fb: fb}
}

func (d *Canvas) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *Canvas) pixels() []byte {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	return d.fb.Buffer()
}

func (d *Canvas) SetPixel(x, y int16, c color.RGBA) {
	buf := d.pixels()
	if buf == nil {
		return
	}
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	off := iy*d.fb.StrideBytes() + ix*2
	if off+1 >= len(buf) {
		return
	}
	pixel := rgb565(c)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *Canvas) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *Canvas) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	buf := d.pixels()
	if buf == nil {
		return nil
	}
	w, h := d.fb.Width(), d.fb.Height()
	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)

	pixel := rgb565(c)
	lo, hi := byte(pixel), byte(pixel>>8)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				break
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

// ScrollUp moves the image up by lines and fills the exposed rows with bg.
func (d *Canvas) ScrollUp(lines int16, bg color.RGBA) error {
	buf := d.pixels()
	if buf == nil || lines <= 0 {
		return nil
	}
	w, h := d.fb.Width(), d.fb.Height()
	n := int(lines)
	if n >= h {
		return d.FillRectangle(0, 0, int16(w), int16(h), bg)
	}
	stride := d.fb.StrideBytes()
	end := h * stride
	if end > len(buf) {
		end = len(buf)
	}
	copy(buf, buf[n*stride:end])
	return d.FillRectangle(0, int16(h-n), int16(w), int16(n), bg)
}

func (d *Canvas) SetScroll(line int16) { _ = line }

func (d *Canvas) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

func rgb565(c color.RGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
