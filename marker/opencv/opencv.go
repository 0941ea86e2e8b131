// Package opencv generates marker images with the OpenCV ArUco module.
package opencv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"markerexp/marker"
)

type dictionary struct {
	name string
	code gocv.ArucoDictionaryCode
	size int
}

func (d dictionary) Name() string { return d.name }
func (d dictionary) Len() int     { return d.size }

var predefined = map[string]dictionary{
	"DICT_4X4_50":         {code: gocv.ArucoDict4x4_50, size: 50},
	"DICT_4X4_100":        {code: gocv.ArucoDict4x4_100, size: 100},
	"DICT_4X4_250":        {code: gocv.ArucoDict4x4_250, size: 250},
	"DICT_4X4_1000":       {code: gocv.ArucoDict4x4_1000, size: 1000},
	"DICT_5X5_50":         {code: gocv.ArucoDict5x5_50, size: 50},
	"DICT_5X5_100":        {code: gocv.ArucoDict5x5_100, size: 100},
	"DICT_5X5_250":        {code: gocv.ArucoDict5x5_250, size: 250},
	"DICT_5X5_1000":       {code: gocv.ArucoDict5x5_1000, size: 1000},
	"DICT_6X6_50":         {code: gocv.ArucoDict6x6_50, size: 50},
	"DICT_6X6_100":        {code: gocv.ArucoDict6x6_100, size: 100},
	"DICT_6X6_250":        {code: gocv.ArucoDict6x6_250, size: 250},
	"DICT_6X6_1000":       {code: gocv.ArucoDict6x6_1000, size: 1000},
	"DICT_7X7_50":         {code: gocv.ArucoDict7x7_50, size: 50},
	"DICT_7X7_100":        {code: gocv.ArucoDict7x7_100, size: 100},
	"DICT_7X7_250":        {code: gocv.ArucoDict7x7_250, size: 250},
	"DICT_7X7_1000":       {code: gocv.ArucoDict7x7_1000, size: 1000},
	"DICT_ARUCO_ORIGINAL": {code: gocv.ArucoDictArucoOriginal, size: 1024},
	"DICT_APRILTAG_16H5":  {code: gocv.ArucoDictAprilTag_16h5, size: 30},
	"DICT_APRILTAG_25H9":  {code: gocv.ArucoDictAprilTag_25h9, size: 35},
	"DICT_APRILTAG_36H10": {code: gocv.ArucoDictAprilTag_36h10, size: 2320},
	"DICT_APRILTAG_36H11": {code: gocv.ArucoDictAprilTag_36h11, size: 587},
}

// Generator implements marker.Backend. The zero value is ready to use.
type Generator struct {
	// BorderBits is the width of the black quiet border in modules; 0 means 1.
	BorderBits int
}

func (g Generator) PredefinedDictionary(name string) (marker.Dictionary, error) {
	d, ok := predefined[name]
	if !ok {
		return nil, fmt.Errorf("unknown predefined dictionary %q", name)
	}
	d.name = name
	return d, nil
}

func (g Generator) GenerateImageMarker(dict marker.Dictionary, id, sidePixels int) (*image.Gray, error) {
	d, ok := dict.(dictionary)
	if !ok {
		return nil, fmt.Errorf("dictionary %s was not created by this generator", dict.Name())
	}
	border := g.BorderBits
	if border <= 0 {
		border = 1
	}

	mat := gocv.NewMat()
	defer mat.Close()
	if err := gocv.ArucoGenerateImageMarker(d.code, id, sidePixels, mat, border); err != nil {
		return nil, fmt.Errorf("generate marker %d: %w", id, err)
	}
	if mat.Empty() {
		return nil, fmt.Errorf("opencv produced no image for marker %d", id)
	}
	if mat.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("unexpected marker image type %v", mat.Type())
	}

	img := image.NewGray(image.Rect(0, 0, mat.Cols(), mat.Rows()))
	copy(img.Pix, mat.ToBytes())
	return img, nil
}
