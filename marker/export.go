package marker

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
)

// ExportPNG writes markers 0..count-1 of family to dir as
// <family>_<id>.png, pixels wide, oriented as they appear on screen.
// It returns the written paths.
func ExportPNG(backend Backend, family string, count, pixels int, dir string) ([]string, error) {
	tax, dict, err := Resolve(backend, family)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("marker count %d: must be positive", count)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, count)
	for id := 0; id < count; id++ {
		bm, err := GenerateBitmap(backend, tax, dict, id, pixels)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%d.png", family, id))
		if err := writePNG(path, bm); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNG(path string, bm Bitmap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, bm.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
