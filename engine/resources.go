package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Zyko0/go-sdl3/img"
	"github.com/Zyko0/go-sdl3/sdl"
)

// FindFont returns preferred when it exists, else the first .ttf/.ttc in
// ./fonts, else a known system font. Empty when nothing is found.
func FindFont(preferred string) string {
	if preferred != "" {
		if _, err := os.Stat(preferred); err == nil {
			return preferred
		}
	}

	if entries, err := os.ReadDir("fonts"); err == nil {
		for _, entry := range entries {
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".ttf", ".ttc":
				if !entry.IsDir() {
					return filepath.Join("fonts", entry.Name())
				}
			}
		}
	}

	for _, p := range systemFonts[runtime.GOOS] {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var systemFonts = map[string][]string{
	"windows": {`C:\Windows\Fonts\arial.ttf`, `C:\Windows\Fonts\segoeui.ttf`},
	"darwin":  {"/System/Library/Fonts/Helvetica.ttc", "/System/Library/Fonts/Supplemental/Arial.ttf"},
	"linux": {
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
	},
}

type CacheEntry struct {
	Texture *sdl.Texture
	W, H    float32
}

// ResourceCache keeps one texture per image file for the life of a window.
type ResourceCache struct {
	renderer *sdl.Renderer
	entries  map[string]*CacheEntry
}

func NewResourceCache(renderer *sdl.Renderer) *ResourceCache {
	return &ResourceCache{
		renderer: renderer,
		entries:  make(map[string]*CacheEntry),
	}
}

func (c *ResourceCache) Image(path string) (*CacheEntry, error) {
	if entry, ok := c.entries[path]; ok {
		return entry, nil
	}
	tex, err := img.LoadTexture(c.renderer, path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	w, h, _ := tex.Size()
	entry := &CacheEntry{Texture: tex, W: w, H: h}
	c.entries[path] = entry
	return entry, nil
}

// Preload loads every trial image up front so presentation does not
// stall on disk reads.
func (c *ResourceCache) Preload(trials []Trial) error {
	for _, t := range trials {
		if _, err := c.Image(t.ImagePath); err != nil {
			return err
		}
	}
	return nil
}

func (c *ResourceCache) Destroy() {
	for path, entry := range c.entries {
		if entry.Texture != nil {
			entry.Texture.Destroy()
		}
		delete(c.entries, path)
	}
}
