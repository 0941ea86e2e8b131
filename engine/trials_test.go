package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
}

func TestLoadTrialsFromDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.jpg", "b.jpg", "c.png", "d.jpg")

	cfg := DefaultConfig()
	cfg.StimuliDir = dir
	cfg.Seed = 7
	trials, err := LoadTrials(cfg)
	require.NoError(t, err)
	require.Len(t, trials, 3)

	var names []string
	for _, tr := range trials {
		names = append(names, filepath.Base(tr.ImagePath))
		assert.Equal(t, cfg.Fixation, tr.Fixation)
		assert.Equal(t, cfg.ImageDuration, tr.Image)
		assert.Equal(t, cfg.Blank, tr.Blank)
	}
	assert.ElementsMatch(t, []string{"a.jpg", "b.jpg", "d.jpg"}, names)
}

func TestLoadTrialsEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StimuliDir = t.TempDir()
	_, err := LoadTrials(cfg)
	assert.ErrorContains(t, err, "no images found")
}

func TestLoadTrialsCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trials.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"image,fixation_ms,image_ms,blank_ms\n"+
			"cat.jpg,300,2000,500\n"+
			"dog.jpg\n"+
			"\n"+
			"/abs/bird.jpg,100\n"), 0o644))

	cfg := DefaultConfig()
	cfg.StimuliDir = "stim"
	trials, err := LoadTrialsCSV(path, cfg)
	require.NoError(t, err)
	require.Len(t, trials, 3)

	assert.Equal(t, Trial{
		ImagePath: filepath.Join("stim", "cat.jpg"),
		Fixation:  300 * time.Millisecond,
		Image:     2 * time.Second,
		Blank:     500 * time.Millisecond,
	}, trials[0])
	assert.Equal(t, Trial{
		ImagePath: filepath.Join("stim", "dog.jpg"),
		Fixation:  cfg.Fixation,
		Image:     cfg.ImageDuration,
		Blank:     cfg.Blank,
	}, trials[1])
	assert.Equal(t, "/abs/bird.jpg", trials[2].ImagePath)
	assert.Equal(t, 100*time.Millisecond, trials[2].Fixation)
	assert.Equal(t, cfg.ImageDuration, trials[2].Image)

	require.NoError(t, os.WriteFile(path, []byte("cat.jpg,soon\n"), 0o644))
	_, err = LoadTrialsCSV(path, cfg)
	assert.ErrorContains(t, err, "line 1")

	_, err = LoadTrialsCSV(filepath.Join(dir, "missing.csv"), cfg)
	assert.Error(t, err)
}

func TestShuffleSeed(t *testing.T) {
	make10 := func() []Trial {
		trials := make([]Trial, 10)
		for i := range trials {
			trials[i].ImagePath = string(rune('a' + i))
		}
		return trials
	}

	a, b := make10(), make10()
	Shuffle(a, 42)
	Shuffle(b, 42)
	assert.Equal(t, a, b)
	assert.ElementsMatch(t, make10(), a)

	c := make10()
	Shuffle(c, 43)
	assert.NotEqual(t, a, c)
}
