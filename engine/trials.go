package engine

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Trial struct {
	ImagePath string
	Fixation  time.Duration
	Image     time.Duration
	Blank     time.Duration
}

// LoadTrials builds the trial list: from cfg.TrialsCSV when set,
// otherwise one trial per file matching cfg.ImagePattern in
// cfg.StimuliDir. Trials are shuffled with cfg.Seed (0 picks a random
// seed).
func LoadTrials(cfg *Config) ([]Trial, error) {
	var trials []Trial
	var err error
	if cfg.TrialsCSV != "" {
		trials, err = LoadTrialsCSV(cfg.TrialsCSV, cfg)
	} else {
		trials, err = trialsFromDir(cfg)
	}
	if err != nil {
		return nil, err
	}
	if len(trials) == 0 {
		return nil, fmt.Errorf("no images found in %s matching %s", cfg.StimuliDir, cfg.ImagePattern)
	}
	Shuffle(trials, cfg.Seed)
	return trials, nil
}

func trialsFromDir(cfg *Config) ([]Trial, error) {
	paths, err := filepath.Glob(filepath.Join(cfg.StimuliDir, cfg.ImagePattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	trials := make([]Trial, len(paths))
	for i, p := range paths {
		trials[i] = Trial{
			ImagePath: p,
			Fixation:  cfg.Fixation,
			Image:     cfg.ImageDuration,
			Blank:     cfg.Blank,
		}
	}
	return trials, nil
}

// LoadTrialsCSV reads rows of "image[,fixation_ms,image_ms,blank_ms]".
// Relative image paths are resolved against cfg.StimuliDir and missing
// durations fall back to cfg. A leading "image,..." header row is skipped.
func LoadTrialsCSV(path string, cfg *Config) ([]Trial, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var trials []Trial
	for i, record := range records {
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		if i == 0 && strings.EqualFold(record[0], "image") {
			continue
		}

		t := Trial{
			ImagePath: record[0],
			Fixation:  cfg.Fixation,
			Image:     cfg.ImageDuration,
			Blank:     cfg.Blank,
		}
		if !filepath.IsAbs(t.ImagePath) {
			t.ImagePath = filepath.Join(cfg.StimuliDir, t.ImagePath)
		}
		durations := []*time.Duration{&t.Fixation, &t.Image, &t.Blank}
		for j, field := range record[1:] {
			if j >= len(durations) || field == "" {
				break
			}
			ms, err := strconv.ParseUint(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid duration %q: %v", i+1, field, err)
			}
			*durations[j] = time.Duration(ms) * time.Millisecond
		}
		trials = append(trials, t)
	}
	return trials, nil
}

func Shuffle(trials []Trial, seed int64) {
	var r *rand.Rand
	if seed == 0 {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		r = rand.New(rand.NewPCG(uint64(seed), 0))
	}
	r.Shuffle(len(trials), func(i, j int) {
		trials[i], trials[j] = trials[j], trials[i]
	})
}
