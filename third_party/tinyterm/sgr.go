package tinyterm

import "image/color"

// SGR (Select Graphic Rendition) parameters understood by the terminal.
const (
	SGRReset = 0
	SGRBold  = 1

	SGRFgBlack        = 30
	SGRFgRed          = 31
	SGRFgGreen        = 32
	SGRFgYellow       = 33
	SGRFgBlue         = 34
	SGRFgMagenta      = 35
	SGRFgCyan         = 36
	SGRFgWhite        = 37
	SGRSetFgColor     = 38
	SGRDefaultFgColor = 39

	SGRBgBlack        = 40
	SGRBgRed          = 41
	SGRBgGreen        = 42
	SGRBgYellow       = 43
	SGRBgBlue         = 44
	SGRBgMagenta      = 45
	SGRBgCyan         = 46
	SGRBgWhite        = 47
	SGRSetBgColor     = 48
	SGRDefaultBgColor = 49
)

// Color is an index into the terminal palette: 0-7 normal, 8-15 bright.
type Color uint8

const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

var palette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF},
	{0xCD, 0x00, 0x00, 0xFF},
	{0x00, 0xCD, 0x00, 0xFF},
	{0xCD, 0xCD, 0x00, 0xFF},
	{0x00, 0x00, 0xEE, 0xFF},
	{0xCD, 0x00, 0xCD, 0xFF},
	{0x00, 0xCD, 0xCD, 0xFF},
	{0xE5, 0xE5, 0xE5, 0xFF},
	{0x7F, 0x7F, 0x7F, 0xFF},
	{0xFF, 0x00, 0x00, 0xFF},
	{0x00, 0xFF, 0x00, 0xFF},
	{0xFF, 0xFF, 0x00, 0xFF},
	{0x5C, 0x5C, 0xFF, 0xFF},
	{0xFF, 0x00, 0xFF, 0xFF},
	{0x00, 0xFF, 0xFF, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
}

// RGBA returns the palette entry for c. Indexes past the palette map to white.
func (c Color) RGBA() color.RGBA {
	if int(c) >= len(palette) {
		return palette[ColorWhite]
	}
	return palette[c]
}

type sgrAttrs struct {
	attrs byte
	fgcol color.RGBA
	bgcol color.RGBA
}

func (a *sgrAttrs) reset() {
	a.attrs = 0
	a.fgcol = ColorWhite.RGBA()
	a.bgcol = ColorBlack.RGBA()
}

// setFG selects the bright variant of a normal color while bold is on.
func (a *sgrAttrs) setFG(c Color) {
	if a.attrs&SGRBold != 0 && c <= ColorWhite {
		c += 8
	}
	a.fgcol = c.RGBA()
}

func (a *sgrAttrs) setBG(c Color) {
	a.bgcol = c.RGBA()
}
