package engine

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLogSave(t *testing.T) {
	log := &EventLog{RunID: "run-1"}
	log.Log("fixation", 2000, 500, true)
	log.Log("image", 3000, 1500, false)

	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, log.Save(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"run_id", "event", "local_ns", "device_ns", "sent"},
		{"run-1", "fixation", "2000", "500", "true"},
		{"run-1", "image", "3000", "1500", "false"},
	}, rows)
}

func TestEventLogSaveError(t *testing.T) {
	log := &EventLog{RunID: "run-1"}
	log.Log("image", 1, 1, true)
	assert.Error(t, log.Save(filepath.Join(t.TempDir(), "missing", "events.csv")))
	assert.Error(t, log.Save(t.TempDir()))
}

func TestOutputName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	id := "1a2b3c4d-0000-4000-8000-000000000000"
	assert.Equal(t, "events_20240309-140507_1a2b3c4d.csv", OutputName("events.csv", id, ts))
	assert.Equal(t, filepath.Join("out", "log_20240309-140507_1a2b3c4d.tsv"),
		OutputName(filepath.Join("out", "log.tsv"), id, ts))
	assert.Equal(t, "events_20240309-140507_1a2b3c4d.csv", OutputName("events", id, ts))
}
