package marker

import (
	"errors"
	"fmt"
	"image"
)

// Bitmap is a square marker pattern with values in {-1, +1}: -1 renders
// black and +1 white. Pix is row-major and row 0 is the bottom row, which
// is the y-up convention of the stimulus coordinate system.
type Bitmap struct {
	Size int
	Pix  []int8
}

func (b Bitmap) At(x, y int) int8 {
	return b.Pix[y*b.Size+x]
}

func (b Bitmap) flipLR() {
	for y := 0; y < b.Size; y++ {
		row := b.Pix[y*b.Size : (y+1)*b.Size]
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
}

func (b Bitmap) flipUD() {
	for i, j := 0, b.Size-1; i < j; i, j = i+1, j-1 {
		top := b.Pix[i*b.Size : (i+1)*b.Size]
		bottom := b.Pix[j*b.Size : (j+1)*b.Size]
		for x := range top {
			top[x], bottom[x] = bottom[x], top[x]
		}
	}
}

// Threshold converts a grayscale marker image into a Bitmap: any sample
// above zero becomes +1, everything else -1.
func Threshold(img *image.Gray) Bitmap {
	r := img.Bounds()
	size := r.Dx()
	bm := Bitmap{Size: size, Pix: make([]int8, size*size)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if img.GrayAt(r.Min.X+x, r.Min.Y+y).Y > 0 {
				bm.Pix[y*size+x] = 1
			} else {
				bm.Pix[y*size+x] = -1
			}
		}
	}
	return bm
}

// Orient applies the taxonomy specific correction in place. AprilTag
// bitmaps from the OpenCV generator are mirrored left-right relative to
// the AprilTag reference; ArUco bitmaps are mirrored top-bottom because
// the renderer's y axis points up.
func Orient(bm Bitmap, tax Taxonomy) {
	if tax == April {
		bm.flipLR()
		return
	}
	bm.flipUD()
}

// GenerateBitmap renders marker id of dict at pixels x pixels and returns
// the thresholded, orientation corrected bitmap. Nothing is cached.
func GenerateBitmap(backend Backend, tax Taxonomy, dict Dictionary, id, pixels int) (Bitmap, error) {
	if id < 0 {
		return Bitmap{}, fmt.Errorf("marker id %d: must not be negative", id)
	}
	if id >= dict.Len() {
		return Bitmap{}, fmt.Errorf("marker id %d: %s only has %d markers", id, dict.Name(), dict.Len())
	}
	if pixels <= 0 {
		return Bitmap{}, fmt.Errorf("marker size %d: must be positive", pixels)
	}

	img, err := backend.GenerateImageMarker(dict, id, pixels)
	if err != nil {
		return Bitmap{}, fmt.Errorf("generate marker %d of %s: %w", id, dict.Name(), err)
	}
	r := img.Bounds()
	if r.Dx() != pixels || r.Dy() != pixels {
		return Bitmap{}, errors.New("marker backend returned an image of the wrong size")
	}

	bm := Threshold(img)
	Orient(bm, tax)
	return bm, nil
}

// Image renders the bitmap as it appears on screen, top row first.
func (b Bitmap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Size, b.Size))
	for y := 0; y < b.Size; y++ {
		src := b.Size - 1 - y
		for x := 0; x < b.Size; x++ {
			if b.At(x, src) > 0 {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	return img
}
