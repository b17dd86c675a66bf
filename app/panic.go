package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"timebeacon/hal"
	"timebeacon/kernel"
	"timebeacon/services/display"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	panicFontHeight = int16(10)
	panicFontOffset = int16(7)
)

func installPanicHandler(h hal.HAL, log *zap.Logger) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		log.Error("task panicked", zap.String("task", info.Task), zap.Any("panic", info.Value))
		stack := splitLines(string(info.Stack))
		if l := h.Logger(); l != nil {
			for _, line := range stack {
				l.WriteLineString(line)
			}
		}

		if d := h.Display(); d != nil {
			if fb := d.Framebuffer(); fb != nil {
				drawPanic(fb, info, stack)
			}
		}
		haltAfterPanic()
	})
}

func drawPanic(fb hal.Framebuffer, info kernel.PanicInfo, stack []string) {
	fb.ClearRGB(255, 255, 255)

	font := &proggy.TinySZ8pt7b
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		_ = fb.Present()
		return
	}

	lines := []string{
		"Beacon Panic:",
		fmt.Sprintf("task: %s", info.Task),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		lines = append(lines, stack...)
	} else {
		lines = append(lines, "stack: unavailable")
	}

	c := display.NewCanvas(fb)
	fg := color.RGBA{A: 255}
	cols := int16(fb.Width()) / fontWidth
	if cols <= 0 {
		cols = 1
	}
	maxH := int16(fb.Height())

	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 {
			if y+panicFontHeight > maxH {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			x := int16(0)
			for _, r := range chunk {
				tinyfont.DrawChar(c, font, x, y+panicFontOffset, r, fg)
				x += fontWidth
			}
			y += panicFontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	for count := int16(0); i < len(s) && count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], s[i:]
}
