package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"

	"markerexp/marker"
)

type MarkerStim struct {
	Instance marker.Instance
	tex      *sdl.Texture
}

// markerPixels expands a bitmap into RGBA rows, top row first. Bitmap row
// 0 is the bottom of the marker.
func markerPixels(bm marker.Bitmap) []byte {
	n := bm.Size
	pix := make([]byte, n*n*4)
	for row := 0; row < n; row++ {
		src := n - 1 - row
		for x := 0; x < n; x++ {
			var v byte
			if bm.At(x, src) > 0 {
				v = 255
			}
			i := (row*n + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return pix
}

func opacityAlpha(opacity float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
}

func NewMarkerStim(w *Window, inst marker.Instance) (*MarkerStim, error) {
	n := inst.Bitmap.Size
	tex, err := w.renderer.CreateTexture(sdl.PIXELFORMAT_RGBA32, sdl.TEXTUREACCESS_STATIC, n, n)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", inst, err)
	}
	w.own(tex)
	if err := tex.Update(nil, markerPixels(inst.Bitmap), int32(n*4)); err != nil {
		return nil, fmt.Errorf("%v: %w", inst, err)
	}
	tex.SetBlendMode(sdl.BLENDMODE_BLEND)
	tex.SetAlphaMod(opacityAlpha(inst.Opacity))
	return &MarkerStim{Instance: inst, tex: tex}, nil
}

func (m *MarkerStim) Draw(w *Window) {
	size := float64(m.Instance.Size)
	dst := w.rect(m.Instance.Slot.X, m.Instance.Slot.Y, size, size)
	w.renderer.RenderTexture(m.tex, nil, &dst)
}

// ImageStim stretches the current image to a W x H box at (X, Y).
type ImageStim struct {
	X, Y, W, H float64
	entry      *CacheEntry
}

func (s *ImageStim) SetImage(w *Window, path string) error {
	entry, err := w.cache.Image(path)
	if err != nil {
		return err
	}
	s.entry = entry
	return nil
}

func (s *ImageStim) Draw(w *Window) {
	if s.entry == nil {
		return
	}
	dst := w.rect(s.X, s.Y, s.W, s.H)
	w.renderer.RenderTexture(s.entry.Texture, nil, &dst)
}

// FixationCross is a filled cross Size pixels wide with arms a fifth of
// that thick.
type FixationCross struct {
	X, Y  float64
	Size  float64
	Color sdl.Color
}

func (c *FixationCross) Draw(w *Window) {
	arm := c.Size * 0.2
	h := w.rect(c.X, c.Y, c.Size, arm)
	v := w.rect(c.X, c.Y, arm, c.Size)
	w.renderer.SetDrawColor(c.Color.R, c.Color.G, c.Color.B, c.Color.A)
	w.renderer.RenderFillRect(&h)
	w.renderer.RenderFillRect(&v)
}

type RectStim struct {
	X, Y, W, H float64
	Fill       sdl.Color
	Line       sdl.Color
}

func (r *RectStim) Draw(w *Window) {
	box := w.rect(r.X, r.Y, r.W, r.H)
	w.renderer.SetDrawColor(r.Fill.R, r.Fill.G, r.Fill.B, r.Fill.A)
	w.renderer.RenderFillRect(&box)
	w.renderer.SetDrawColor(r.Line.R, r.Line.G, r.Line.B, r.Line.A)
	w.renderer.RenderRect(&box)
}

// TextStim is centred text, wrapped to wrapWidth of the window and on
// "\n". Wrapped lines are centred.
type TextStim struct {
	X, Y float64
	tex  *sdl.Texture
	w, h float64
}

// wrapWidth is the widest a line of text may get in a window width pixels
// wide.
func wrapWidth(width int) int32 {
	return int32(float64(width) * 0.8)
}

func NewTextStim(w *Window, font *ttf.Font, text string, color sdl.Color) (*TextStim, error) {
	t := &TextStim{}
	if strings.TrimSpace(text) == "" {
		return t, nil
	}
	font.SetWrapAlignment(ttf.HORIZONTAL_ALIGN_CENTER)
	surf, err := font.RenderTextBlendedWrapped(text, color, wrapWidth(w.Width))
	if err != nil {
		return nil, fmt.Errorf("render text %q: %w", text, err)
	}
	defer surf.Destroy()
	tex, err := w.renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return nil, err
	}
	w.own(tex)
	t.tex, t.w, t.h = tex, float64(surf.W), float64(surf.H)
	return t, nil
}

func (t *TextStim) Draw(w *Window) {
	if t.tex == nil {
		return
	}
	dst := w.rect(t.X, t.Y, t.w, t.h)
	w.renderer.RenderTexture(t.tex, nil, &dst)
}
