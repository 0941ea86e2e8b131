package engine

import (
	"strconv"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"

	"markerexp/logger"
)

// Dialogs asks the operator for the companion device address and reports
// connection failures.
type Dialogs interface {
	AskConnection(address string, port int) (string, int, bool)
	ShowMessage(text string)
}

// SDLDialogs draws the dialogs in their own small window. SDL and TTF must
// already be initialised.
type SDLDialogs struct {
	FontFile string
}

const (
	connectLabel = "Connect"
	cancelLabel  = "Cancel"
)

var (
	dialogBlack = sdl.Color{R: 0, G: 0, B: 0, A: 255}
	dialogWhite = sdl.Color{R: 255, G: 255, B: 255, A: 255}
	dialogRed   = sdl.Color{R: 200, G: 0, B: 0, A: 255}
)

func drawLabel(renderer *sdl.Renderer, font *ttf.Font, text string, x, y float32, color sdl.Color) {
	if text == "" {
		return
	}
	surf, err := font.RenderTextBlended(text, color)
	if err != nil || surf == nil {
		return
	}
	defer surf.Destroy()
	tex, err := renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return
	}
	r := sdl.FRect{X: x, Y: y, W: float32(surf.W), H: float32(surf.H)}
	renderer.RenderTexture(tex, nil, &r)
	tex.Destroy()
}

func drawButton(renderer *sdl.Renderer, font *ttf.Font, box sdl.FRect, label string) {
	renderer.SetDrawColor(0, 150, 0, 255)
	renderer.RenderFillRect(&box)
	drawLabel(renderer, font, label, box.X+12, box.Y+8, dialogWhite)
}

func inside(box sdl.FRect, x, y float32) bool {
	return x >= box.X && x <= box.X+box.W && y >= box.Y && y <= box.Y+box.H
}

func (d SDLDialogs) open(title string, w, h int) (*sdl.Window, *sdl.Renderer, *ttf.Font, bool) {
	window, renderer, err := sdl.CreateWindowAndRenderer(title, w, h, 0)
	if err != nil {
		logger.S().Errorw("create dialog window", "error", err)
		return nil, nil, nil, false
	}
	fontPath := FindFont(d.FontFile)
	if fontPath == "" {
		logger.S().Error("no font found for dialog")
		renderer.Destroy()
		window.Destroy()
		return nil, nil, nil, false
	}
	font, err := ttf.OpenFont(fontPath, 18)
	if err != nil {
		logger.S().Errorw("load dialog font", "path", fontPath, "error", err)
		renderer.Destroy()
		window.Destroy()
		return nil, nil, nil, false
	}
	window.Raise()
	return window, renderer, font, true
}

// AskConnection shows the address and port fields prefilled with the given
// values. It returns false when the operator cancels or closes the window.
func (d SDLDialogs) AskConnection(address string, port int) (string, int, bool) {
	window, renderer, font, ok := d.open("Pupil Labs connection", 560, 260)
	if !ok {
		return "", 0, false
	}
	defer window.Destroy()
	defer renderer.Destroy()
	defer font.Close()

	fields := [2]string{address, strconv.Itoa(port)}
	labels := [2]string{"Companion address:", "Port:"}
	boxes := [2]sdl.FRect{
		{X: 40, Y: 50, W: 480, H: 30},
		{X: 40, Y: 120, W: 160, H: 30},
	}
	connectBtn := sdl.FRect{X: 300, Y: 190, W: 110, H: 40}
	cancelBtn := sdl.FRect{X: 420, Y: 190, W: 100, H: 40}
	focus := 0
	hint := ""

	submit := func() (int, bool) {
		p, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil || p <= 0 || p > 65535 || strings.TrimSpace(fields[0]) == "" {
			hint = "Enter an address and a port between 1 and 65535"
			return 0, false
		}
		return p, true
	}

	window.StartTextInput()
	defer window.StopTextInput()

	for {
		var e sdl.Event
		for sdl.PollEvent(&e) {
			switch e.Type {
			case sdl.EVENT_QUIT, sdl.EVENT_WINDOW_CLOSE_REQUESTED:
				return "", 0, false
			case sdl.EVENT_MOUSE_BUTTON_DOWN:
				me := e.MouseButtonEvent()
				for i, box := range boxes {
					if inside(box, me.X, me.Y) {
						focus = i
					}
				}
				if inside(cancelBtn, me.X, me.Y) {
					return "", 0, false
				}
				if inside(connectBtn, me.X, me.Y) {
					if p, ok := submit(); ok {
						return strings.TrimSpace(fields[0]), p, true
					}
				}
			case sdl.EVENT_TEXT_INPUT:
				fields[focus] += e.TextInputEvent().Text
			case sdl.EVENT_KEY_DOWN:
				switch e.KeyboardEvent().Key {
				case sdl.K_ESCAPE:
					return "", 0, false
				case sdl.K_TAB:
					focus = 1 - focus
				case sdl.K_BACKSPACE:
					if n := len(fields[focus]); n > 0 {
						fields[focus] = fields[focus][:n-1]
					}
				case sdl.K_RETURN, sdl.K_KP_ENTER:
					if p, ok := submit(); ok {
						return strings.TrimSpace(fields[0]), p, true
					}
				}
			}
		}

		renderer.SetDrawColor(240, 240, 240, 255)
		renderer.Clear()
		for i, box := range boxes {
			drawLabel(renderer, font, labels[i], box.X, box.Y-28, dialogBlack)
			renderer.SetDrawColor(255, 255, 255, 255)
			renderer.RenderFillRect(&box)
			if focus == i {
				renderer.SetDrawColor(0, 120, 255, 255)
			} else {
				renderer.SetDrawColor(180, 180, 180, 255)
			}
			renderer.RenderRect(&box)
			drawLabel(renderer, font, fields[i], box.X+5, box.Y+5, dialogBlack)
		}
		drawLabel(renderer, font, hint, 40, 160, dialogRed)
		drawButton(renderer, font, connectBtn, connectLabel)
		drawButton(renderer, font, cancelBtn, cancelLabel)

		renderer.Present()
		sdl.Delay(10)
	}
}

// ShowMessage blocks until the operator dismisses text with a key press or
// a click.
func (d SDLDialogs) ShowMessage(text string) {
	window, renderer, font, ok := d.open("markerexp", 560, 240)
	if !ok {
		logger.S().Warn(text)
		return
	}
	defer window.Destroy()
	defer renderer.Destroy()
	defer font.Close()

	okBtn := sdl.FRect{X: 230, Y: 180, W: 100, H: 40}
	lines := strings.Split(text, "\n")

	for {
		var e sdl.Event
		for sdl.PollEvent(&e) {
			switch e.Type {
			case sdl.EVENT_QUIT, sdl.EVENT_WINDOW_CLOSE_REQUESTED, sdl.EVENT_KEY_DOWN:
				return
			case sdl.EVENT_MOUSE_BUTTON_DOWN:
				me := e.MouseButtonEvent()
				if inside(okBtn, me.X, me.Y) {
					return
				}
			}
		}

		renderer.SetDrawColor(240, 240, 240, 255)
		renderer.Clear()
		for i, line := range lines {
			drawLabel(renderer, font, line, 30, float32(30+i*26), dialogBlack)
		}
		drawButton(renderer, font, okBtn, "OK")
		renderer.Present()
		sdl.Delay(10)
	}
}
