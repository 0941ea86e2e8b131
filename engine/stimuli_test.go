package engine

import (
	"testing"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/stretchr/testify/assert"

	"markerexp/marker"
)

func TestWindowRect(t *testing.T) {
	w := &Window{Width: 1920, Height: 1080}
	assert.Equal(t, sdl.FRect{X: 910, Y: 490, W: 100, H: 100}, w.rect(0, 0, 100, 100))

	// top-left marker slot for a 200px marker with a 50px margin
	slots := marker.Slots(1920, 1080, 200, 50)
	assert.Equal(t, sdl.FRect{X: 50, Y: 50, W: 200, H: 200}, w.rect(slots[0].X, slots[0].Y, 200, 200))
	// bottom-right
	assert.Equal(t, sdl.FRect{X: 1670, Y: 830, W: 200, H: 200}, w.rect(slots[4].X, slots[4].Y, 200, 200))
}

func TestMarkerPixels(t *testing.T) {
	// bottom row white on the left, top row all black
	bm := marker.Bitmap{Size: 2, Pix: []int8{1, -1, -1, -1}}
	assert.Equal(t, []byte{
		0, 0, 0, 255, 0, 0, 0, 255,
		255, 255, 255, 255, 0, 0, 0, 255,
	}, markerPixels(bm))
}

func TestOpacityAlpha(t *testing.T) {
	assert.Equal(t, uint8(191), opacityAlpha(0.75))
	assert.Equal(t, uint8(255), opacityAlpha(1))
	assert.Equal(t, uint8(0), opacityAlpha(0))
	assert.Equal(t, uint8(255), opacityAlpha(2))
}

func TestWrapWidth(t *testing.T) {
	assert.Equal(t, int32(1536), wrapWidth(1920))
	assert.Equal(t, int32(2048), wrapWidth(2560))
}

func TestConnectionDialogButtons(t *testing.T) {
	assert.Equal(t, "Connect", connectLabel)
	assert.Equal(t, "Cancel", cancelLabel)
}
