package opencv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markerexp/marker"
)

func TestPredefinedDictionary(t *testing.T) {
	var g Generator
	d, err := g.PredefinedDictionary("DICT_APRILTAG_36H11")
	require.NoError(t, err)
	assert.Equal(t, "DICT_APRILTAG_36H11", d.Name())
	assert.Equal(t, 587, d.Len())

	_, err = g.PredefinedDictionary("DICT_3X3_50")
	assert.Error(t, err)
}

func TestEveryFamilyResolves(t *testing.T) {
	families := append([]string{marker.ArucoOriginal}, marker.AprilTagFamilies...)
	for _, n := range marker.ArucoSizes {
		for _, m := range marker.ArucoNumbers {
			families = append(families, n+"_"+m)
		}
	}
	for _, f := range families {
		_, _, err := marker.Resolve(Generator{}, f)
		assert.NoError(t, err, f)
	}
}

func TestGenerateImageMarker(t *testing.T) {
	var g Generator
	d, err := g.PredefinedDictionary("DICT_6X6_250")
	require.NoError(t, err)

	img, err := g.GenerateImageMarker(d, 3, 80)
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
	// the quiet border is black
	for x := 0; x < 80; x++ {
		assert.Zero(t, img.GrayAt(x, 0).Y)
		assert.Zero(t, img.GrayAt(x, 79).Y)
	}

	bm, err := marker.GenerateBitmap(g, marker.Aruco, d, 3, 80)
	require.NoError(t, err)
	assert.Len(t, bm.Pix, 80*80)
}

type foreign struct{}

func (foreign) Name() string { return "foreign" }
func (foreign) Len() int     { return 1 }

func TestGenerateImageMarkerForeignDictionary(t *testing.T) {
	_, err := Generator{}.GenerateImageMarker(foreign{}, 0, 10)
	assert.Error(t, err)
}

func TestGenerateImageMarkerOutOfRange(t *testing.T) {
	var g Generator
	d, err := g.PredefinedDictionary("DICT_4X4_50")
	require.NoError(t, err)

	_, err = g.GenerateImageMarker(d, 999, 80)
	assert.ErrorContains(t, err, "generate marker 999")
}
