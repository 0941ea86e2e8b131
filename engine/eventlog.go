package engine

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type EventLogEntry struct {
	Name     string
	LocalNS  int64
	DeviceNS int64
	Sent     bool
}

type EventLog struct {
	RunID   string
	Entries []EventLogEntry
}

func (l *EventLog) Log(name string, localNS, deviceNS int64, sent bool) {
	l.Entries = append(l.Entries, EventLogEntry{
		Name:     name,
		LocalNS:  localNS,
		DeviceNS: deviceNS,
		Sent:     sent,
	})
}

func (l *EventLog) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	w.Write([]string{"run_id", "event", "local_ns", "device_ns", "sent"})
	for _, e := range l.Entries {
		w.Write([]string{
			l.RunID,
			e.Name,
			strconv.FormatInt(e.LocalNS, 10),
			strconv.FormatInt(e.DeviceNS, 10),
			strconv.FormatBool(e.Sent),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OutputName inserts a timestamp and a short run id before the extension:
// events.csv -> events_20060102-150405_1a2b3c4d.csv.
func OutputName(base, runID string, t time.Time) string {
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".csv"
	}
	short, _, _ := strings.Cut(runID, "-")
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_" + t.Format("20060102-150405") + "_" + short + ext
}
