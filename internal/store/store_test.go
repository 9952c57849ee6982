package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveen/wattwise/internal/history"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields empty snapshot", func(t *testing.T) {
		snap, err := Load(filepath.Join(t.TempDir(), "history.json"))

		require.NoError(t, err)
		assert.Empty(t, snap.Power)
		assert.Empty(t, snap.Current)
	})

	t.Run("corrupt file returns an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("reads persisted pairs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.json")
		content := `{"power":[[1748779200,250.5],[1748779201,260]],"current":[[1748779200,2.1]]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		snap, err := Load(path)
		require.NoError(t, err)

		require.Len(t, snap.Power, 2)
		assert.Equal(t, 250.5, snap.Power[0].Value)
		assert.Equal(t, int64(1748779200), snap.Power[0].Timestamp.Unix())
		require.Len(t, snap.Current, 1)
		assert.Equal(t, 2.1, snap.Current[0].Value)
	})
}

func TestSave(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("round trips through the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wattwise", "history.json")
		snap := Snapshot{
			Power: []history.Reading{
				{Timestamp: base, Value: 100},
				{Timestamp: base.Add(time.Second), Value: 200},
			},
			Current: []history.Reading{
				{Timestamp: base, Value: 1.5},
			},
		}

		require.NoError(t, Save(path, snap))

		loaded, err := Load(path)
		require.NoError(t, err)
		require.Len(t, loaded.Power, 2)
		assert.Equal(t, 100.0, loaded.Power[0].Value)
		assert.Equal(t, base.Unix(), loaded.Power[0].Timestamp.Unix())
		require.Len(t, loaded.Current, 1)
	})

	t.Run("interrupted session with power only", func(t *testing.T) {
		// Five power samples and no current samples must persist as five
		// pairs and an empty current list, not a missing key.
		path := filepath.Join(t.TempDir(), "history.json")
		var power []history.Reading
		for i := 0; i < 5; i++ {
			power = append(power, history.Reading{Timestamp: base.Add(time.Duration(i) * time.Second), Value: float64(200 + i)})
		}

		require.NoError(t, Save(path, Snapshot{Power: power}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"current":[]`)

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, loaded.Power, 5)
		assert.Empty(t, loaded.Current)
	})

	t.Run("overwrites a previous file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.json")
		require.NoError(t, Save(path, Snapshot{Power: []history.Reading{{Timestamp: base, Value: 1}}}))
		require.NoError(t, Save(path, Snapshot{Power: []history.Reading{{Timestamp: base, Value: 2}}}))

		loaded, err := Load(path)
		require.NoError(t, err)
		require.Len(t, loaded.Power, 1)
		assert.Equal(t, 2.0, loaded.Power[0].Value)
	})
}
