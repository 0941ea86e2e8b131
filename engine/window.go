package engine

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
)

// Drawable is anything the window can draw into the current frame.
type Drawable interface {
	Draw(w *Window)
}

// Window is a stimulus window. Positions given to stimuli are pixels from
// the window centre with y pointing up; the window converts them to SDL's
// top-left origin. Width and Height are the rendered output size in pixels.
type Window struct {
	Width, Height int

	window   *sdl.Window
	renderer *sdl.Renderer
	bg       sdl.Color
	cache    *ResourceCache
	autoDraw []Drawable
	onFlip   []func() error
	keys     []string
	owned    []*sdl.Texture
	closed   bool
}

func NewWindow(title string, cfg *Config) (*Window, error) {
	windowFlags := sdl.WINDOW_FULLSCREEN
	if !cfg.Fullscreen {
		windowFlags = 0
	}

	window, renderer, err := sdl.CreateWindowAndRenderer(title, cfg.ScreenWidth, cfg.ScreenHeight, windowFlags)
	if err != nil {
		return nil, err
	}

	if cfg.VSync {
		renderer.SetVSync(1)
	} else {
		renderer.SetVSync(0)
	}
	if cfg.Fullscreen {
		sdl.HideCursor()
	}
	window.Raise()
	// fullscreen switches are asynchronous in SDL3
	window.Sync()

	width, height, err := renderer.RenderOutputSize()
	w := &Window{
		Width:    pixelSize(width, err, cfg.ScreenWidth),
		Height:   pixelSize(height, err, cfg.ScreenHeight),
		window:   window,
		renderer: renderer,
		bg:       sdl.Color(cfg.BGColor),
		cache:    NewResourceCache(renderer),
	}
	w.clear()
	return w, nil
}

// pixelSize prefers the size SDL actually gave the window, which differs
// from the requested one in fullscreen.
func pixelSize(actual int32, err error, requested int) int {
	if err != nil || actual <= 0 {
		return requested
	}
	return int(actual)
}

func (w *Window) clear() {
	w.renderer.SetDrawColor(w.bg.R, w.bg.G, w.bg.B, w.bg.A)
	w.renderer.Clear()
}

// rect converts a centre-origin, y-up box to an SDL rectangle.
func (w *Window) rect(cx, cy, width, height float64) sdl.FRect {
	return sdl.FRect{
		X: float32(float64(w.Width)/2 + cx - width/2),
		Y: float32(float64(w.Height)/2 - cy - height/2),
		W: float32(width),
		H: float32(height),
	}
}

// AutoDraw keeps d on screen: it is drawn on top of every frame until the
// window closes.
func (w *Window) AutoDraw(d Drawable) {
	w.autoDraw = append(w.autoDraw, d)
}

// CallOnFlip schedules fn to run right after the next frame is presented.
func (w *Window) CallOnFlip(fn func() error) {
	w.onFlip = append(w.onFlip, fn)
}

// Flip draws the auto-draw stimuli, presents the frame (waiting for
// vsync when enabled), runs the on-flip callbacks and starts a fresh
// frame. Callback errors are joined.
func (w *Window) Flip() error {
	for _, d := range w.autoDraw {
		d.Draw(w)
	}
	w.renderer.Present()

	callbacks := w.onFlip
	w.onFlip = nil
	var errs []error
	for _, fn := range callbacks {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}

	w.clear()
	w.pump()
	return errors.Join(errs...)
}

// Wait blocks for d while keeping the event queue drained.
func (w *Window) Wait(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		w.pump()
		sdl.Delay(1)
	}
}

func keyName(ev *sdl.Event) (string, bool) {
	switch ev.Type {
	case sdl.EVENT_QUIT:
		return "escape", true
	case sdl.EVENT_KEY_DOWN:
		return strings.ToLower(ev.KeyboardEvent().Key.KeyName()), true
	}
	return "", false
}

func (w *Window) pump() {
	for {
		var ev sdl.Event
		if !sdl.PollEvent(&ev) {
			break
		}
		if name, ok := keyName(&ev); ok {
			w.keys = append(w.keys, name)
		}
	}
}

// GetKeys returns the buffered key presses matching names (all keys when
// names is empty) and empties the buffer.
func (w *Window) GetKeys(names ...string) []string {
	w.pump()
	var out []string
	for _, k := range w.keys {
		if len(names) == 0 || slices.Contains(names, k) {
			out = append(out, k)
		}
	}
	w.keys = w.keys[:0]
	return out
}

// WaitKeys discards buffered keys and blocks until one of names is
// pressed. Closing the window returns "escape".
func (w *Window) WaitKeys(names ...string) string {
	w.pump()
	w.keys = w.keys[:0]
	for {
		var ev sdl.Event
		if err := sdl.WaitEvent(&ev); err != nil {
			return "escape"
		}
		name, ok := keyName(&ev)
		if !ok {
			continue
		}
		if ev.Type == sdl.EVENT_QUIT || len(names) == 0 || slices.Contains(names, name) {
			return name
		}
	}
}

func (w *Window) own(tex *sdl.Texture) {
	w.owned = append(w.owned, tex)
}

func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.autoDraw = nil
	w.onFlip = nil
	for _, tex := range w.owned {
		tex.Destroy()
	}
	w.owned = nil
	w.cache.Destroy()
	w.renderer.Destroy()
	w.window.Destroy()
	sdl.ShowCursor()
	return nil
}
