package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, err := ParseColor("10, 20,30")
	require.NoError(t, err)
	assert.Equal(t, sdl.Color{R: 10, G: 20, B: 30, A: 255}, c)

	c, err = ParseColor("1,2,3,4")
	require.NoError(t, err)
	assert.Equal(t, sdl.Color{R: 1, G: 2, B: 3, A: 4}, c)

	for _, bad := range []string{"", "1,2", "1,2,3,4,5", "256,0,0", "a,b,c"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "36h11", cfg.Markers.Family)
	assert.Equal(t, 6, cfg.Markers.Count)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5, cfg.MaxConnectAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Fixation)
	assert.Equal(t, 4*time.Second, cfg.ImageDuration)
	assert.Equal(t, time.Second, cfg.Blank)
	assert.Equal(t, 5*time.Second, cfg.RecordingWarmup)
	assert.Equal(t, 1200, cfg.ImageWidth)
	assert.Equal(t, 800, cfg.ImageHeight)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dummy: true
address: 10.0.0.7
fixation: 250ms
image: 2s
bg_color: 0,0,0
markers:
  family: 6x6_250
  count: 8
  opacity: 1
`), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFile(path))
	assert.True(t, cfg.Dummy)
	assert.Equal(t, "10.0.0.7", cfg.Address)
	assert.Equal(t, 250*time.Millisecond, cfg.Fixation)
	assert.Equal(t, 2*time.Second, cfg.ImageDuration)
	assert.Equal(t, time.Second, cfg.Blank)
	assert.Equal(t, Color{R: 0, G: 0, B: 0, A: 255}, cfg.BGColor)
	assert.Equal(t, "6x6_250", cfg.Markers.Family)
	assert.Equal(t, 8, cfg.Markers.Count)
	assert.Equal(t, 1.0, cfg.Markers.Opacity)
	assert.Equal(t, 200, cfg.Markers.Size)

	require.NoError(t, os.WriteFile(path, []byte("bg_color: red\n"), 0o644))
	assert.Error(t, DefaultConfig().LoadFile(path))
	assert.Error(t, DefaultConfig().LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), CacheFile)

	saved := DefaultConfig()
	saved.Address = "192.168.1.20"
	saved.Port = 8081
	saved.StimuliDir = "pictures"
	require.NoError(t, saved.SaveCache(path))

	loaded := DefaultConfig()
	loaded.LoadCache(path)
	assert.Equal(t, "192.168.1.20", loaded.Address)
	assert.Equal(t, 8081, loaded.Port)
	assert.Equal(t, "pictures", loaded.StimuliDir)

	untouched := DefaultConfig()
	untouched.LoadCache(filepath.Join(t.TempDir(), "none"))
	assert.Equal(t, DefaultConfig(), untouched)
}

func TestAddressPrefix(t *testing.T) {
	assert.Equal(t, "192.168.", addressPrefix("192.168.1.42"))
	assert.Equal(t, "10.0.", addressPrefix("10.0.0.1"))
	assert.Equal(t, "::1", addressPrefix("::1"))
}

func TestCacheDoesNotKeepDummy(t *testing.T) {
	path := filepath.Join(t.TempDir(), CacheFile)

	dummyRun := DefaultConfig()
	dummyRun.Dummy = true
	require.NoError(t, dummyRun.SaveCache(path))

	next := DefaultConfig()
	next.LoadCache(path)
	assert.False(t, next.Dummy)

	// caches written by older versions still carry the key
	require.NoError(t, os.WriteFile(path, []byte("address=10.0.0.2\ndummy=1\n"), 0o644))
	old := DefaultConfig()
	old.LoadCache(path)
	assert.Equal(t, "10.0.0.2", old.Address)
	assert.False(t, old.Dummy)
}

func TestSaveCacheError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", CacheFile)
	assert.Error(t, DefaultConfig().SaveCache(path))
}
