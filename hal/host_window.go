//go:build !tinygo && cgo

package hal

import (
	"context"
	"image"

	"timebeacon/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow starts a desktop window that shows the simulated LCD.
// It blocks until the window closes or the firmware returns.
func RunWindow(ctx context.Context, newApp func(HAL) func(context.Context) error, cfg HostConfig) error {
	h := newHost(cfg.DataDir)
	run := newApp(h)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	g := &hostGame{h: h, done: done}
	ebiten.SetWindowTitle(windowTitle(false))
	ebiten.SetWindowSize(h.fb.width*2, h.fb.height*2)
	ebiten.SetTPS(30)
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	if g.err == context.Canceled {
		return nil
	}
	return g.err
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	done    <-chan error
	err     error
	ledOn   bool
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.err = err
		return ebiten.Termination
	default:
	}
	if on := g.h.led.on.Load(); on != g.ledOn {
		g.ledOn = on
		ebiten.SetWindowTitle(windowTitle(on))
	}
	return nil
}

func windowTitle(advertising bool) string {
	t := "Time Beacon (" + buildinfo.Short() + ")"
	if advertising {
		t += " [ADV]"
	}
	return t
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.front))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
