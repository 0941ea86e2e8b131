package engine

import (
	"context"
	"fmt"

	"github.com/Zyko0/go-sdl3/sdl"

	"markerexp/marker"
)

const checkText = "This is a test run.\n" +
	"Please take a picture of the screen and send it to the experimenter.\n\n" +
	"On the Neon companion device, open the preview page (bottom right).\n" +
	"Make sure the markers are clearly visible in the room's lighting condition.\n\n" +
	"Press ESCAPE or SPACE to end the test."

// Check shows the markers around a white stimulus-sized rectangle so the
// setup can be verified on the companion device preview. No tracker is
// involved.
func Check(ctx context.Context, cfg *Config, backend marker.Backend) error {
	quit, err := initSDL()
	if err != nil {
		return err
	}
	defer quit()

	win, err := NewWindow("markerexp check", cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Close()

	font, err := openFont(cfg)
	if err != nil {
		return err
	}
	defer font.Close()

	if _, err := DrawMarkers(win, backend, cfg.Markers); err != nil {
		return err
	}
	rect := &RectStim{
		W:    float64(cfg.ImageWidth),
		H:    float64(cfg.ImageHeight),
		Fill: sdl.Color{R: 255, G: 255, B: 255, A: 255},
		Line: sdl.Color{R: 0, G: 0, B: 0, A: 255},
	}
	text, err := NewTextStim(win, font, checkText, sdl.Color{R: 255, G: 0, B: 0, A: 255})
	if err != nil {
		return err
	}

	rect.Draw(win)
	text.Draw(win)
	if err := win.Flip(); err != nil {
		return err
	}
	win.WaitKeys("escape", "space")
	return ctx.Err()
}
