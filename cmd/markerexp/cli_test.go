package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markerexp/engine"
)

func parse(t *testing.T, args ...string) *engine.Config {
	t.Helper()
	cfg := engine.DefaultConfig()
	opts := &options{}
	root := newRootCmd(cfg, opts)
	cmd, rest, err := root.Find(args)
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(rest))
	require.NoError(t, loadConfig(cmd, cfg, opts))
	return cfg
}

func TestFlagsOverrideDefaults(t *testing.T) {
	cfg := parse(t, "run", "--dummy", "--seed", "9", "--family", "6x6_250", "--count", "8",
		"--windowed", "--port", "9090", "-o", "out.csv")
	assert.True(t, cfg.Dummy)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, "6x6_250", cfg.Markers.Family)
	assert.Equal(t, 8, cfg.Markers.Count)
	assert.False(t, cfg.Fullscreen)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "out.csv", cfg.OutputFile)
}

func TestUnsetFlagsKeepDefaults(t *testing.T) {
	cfg := parse(t, "check")
	def := engine.DefaultConfig()
	assert.Equal(t, def.Markers, cfg.Markers)
	assert.True(t, cfg.Fullscreen)
	assert.Equal(t, def.OutputFile, cfg.OutputFile)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("markers:\n  family: 4x4_50\n  count: 4\nseed: 3\n"), 0o644))

	cfg := parse(t, "run", "--config", path, "--count", "6")
	assert.Equal(t, "4x4_50", cfg.Markers.Family)
	assert.Equal(t, 6, cfg.Markers.Count)
	assert.Equal(t, int64(3), cfg.Seed)
}
