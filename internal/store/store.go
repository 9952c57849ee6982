// Package store persists session history between runs.
//
// The on-disk format matches the daemon-era file: a JSON object holding
// per-metric arrays of [unixSeconds, value] pairs. Loading and saving are
// collaborator concerns; the core buffers receive loaded data through
// explicit seeding and never touch the file themselves.
package store

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/naveen/wattwise/internal/history"
)

// DefaultFileName is the history file name under the data directory.
const DefaultFileName = "history.json"

// Snapshot carries the persisted series for one session.
type Snapshot struct {
	Power   []history.Reading
	Current []history.Reading
}

// fileFormat is the JSON shape of the history file.
type fileFormat struct {
	Power   [][2]float64 `json:"power"`
	Current [][2]float64 `json:"current"`
}

// DefaultPath returns the standard history file location,
// ~/.local/share/wattwise/history.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "wattwise", DefaultFileName), nil
}

// Load reads a snapshot from path. A missing file yields an empty snapshot
// and no error; any other failure is returned for the caller to log.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("read history file: %w", err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return Snapshot{}, fmt.Errorf("parse history file: %w", err)
	}

	return Snapshot{
		Power:   toReadings(ff.Power),
		Current: toReadings(ff.Current),
	}, nil
}

// Save writes the snapshot to path, overwriting any previous file and
// creating parent directories as needed.
func Save(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	ff := fileFormat{
		Power:   toPairs(snap.Power),
		Current: toPairs(snap.Current),
	}
	data, err := json.Marshal(ff)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

func toReadings(pairs [][2]float64) []history.Reading {
	readings := make([]history.Reading, 0, len(pairs))
	for _, p := range pairs {
		sec, frac := math.Modf(p[0])
		readings = append(readings, history.Reading{
			Timestamp: time.Unix(int64(sec), int64(frac*float64(time.Second))),
			Value:     p[1],
		})
	}
	return readings
}

func toPairs(readings []history.Reading) [][2]float64 {
	pairs := make([][2]float64, 0, len(readings))
	for _, r := range readings {
		ts := float64(r.Timestamp.UnixNano()) / float64(time.Second)
		pairs = append(pairs, [2]float64{ts, r.Value})
	}
	return pairs
}
