package store_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parkerlabs/radar/internal/radar"
	"github.com/parkerlabs/radar/internal/store"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixedFit struct{ rating int }

func (f fixedFit) FitRating(string, string) int { return f.rating }

func testSignal(id, title string) radar.Signal {
	return radar.Signal{
		ID:           id,
		Region:       "Ohio",
		Organization: "Anytown City Schools",
		Title:        title,
		Link:         "https://example.com/" + id,
		Published:    "2026-03-09T08:00:00Z",
		Trigger:      radar.TriggerOther,
		Score:        40,
		Breakdown:    &radar.Breakdown{Recency: 25, Fit: 10, Source: 5},
		CreatedAt:    "2026-03-10T12:00:00Z",
	}
}

func TestOpenSignalsEmpty(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		s := store.OpenSignals(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
		assert.Zero(t, s.Len())
	})
	t.Run("CorruptFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "signals.json")
		require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))
		s := store.OpenSignals(path, zap.NewNop())
		assert.Zero(t, s.Len())
	})
}

func TestUpsertIfNew(t *testing.T) {
	s := store.OpenSignals(filepath.Join(t.TempDir(), "signals.json"), zap.NewNop())

	assert.True(t, s.UpsertIfNew(testSignal("aaa", "first")))
	assert.True(t, s.UpsertIfNew(testSignal("bbb", "second")))
	assert.False(t, s.UpsertIfNew(testSignal("aaa", "first again")))

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "first", s.All()[0].Title)
	assert.True(t, s.Contains("aaa"))
	assert.False(t, s.Contains("ccc"))
}

func TestPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "signals.json")

	s := store.OpenSignals(path, zap.NewNop())
	s.UpsertIfNew(testSignal("aaa", "first"))
	s.UpsertIfNew(testSignal("bbb", "second"))
	require.True(t, s.Dirty())
	require.NoError(t, s.Persist())
	assert.False(t, s.Dirty())

	// Dedup survives the reload: replaying the same signal is a no-op.
	reloaded := store.OpenSignals(path, zap.NewNop())
	require.Equal(t, 2, reloaded.Len())
	assert.False(t, reloaded.UpsertIfNew(testSignal("aaa", "first")))
	assert.Equal(t, 2, reloaded.Len())
}

func TestPersistedDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.json")
	s := store.OpenSignals(path, zap.NewNop())
	s.UpsertIfNew(testSignal("aaa", "first"))
	require.NoError(t, s.Persist())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc["signals"], 1)

	sig := doc["signals"][0]
	assert.Equal(t, "Ohio", sig["state"])
	assert.Equal(t, "Anytown City Schools", sig["district"])
	assert.Contains(t, sig, "breakdown")
	assert.Contains(t, sig["breakdown"], "stem")
}

func TestMigrate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	scorer := radar.NewScorer(fixedClock{now})

	legacy := radar.Signal{
		ID:           "legacy",
		Region:       "Ohio",
		Organization: "Anytown City Schools",
		Title:        "District passes levy for new robotics lab",
		Link:         "https://district.k12.oh.us/levy",
		Published:    now.AddDate(0, 0, -2).Format(time.RFC3339),
		Score:        77,
		CreatedAt:    "2025-01-01T00:00:00Z",
	}
	current := testSignal("current", "already complete")

	s := store.OpenSignals(filepath.Join(t.TempDir(), "signals.json"), zap.NewNop())
	require.True(t, s.UpsertIfNew(legacy))
	require.True(t, s.UpsertIfNew(current))

	migrated := s.Migrate(scorer, fixedFit{rating: 80})
	assert.Equal(t, 1, migrated)

	got := s.All()[0]
	assert.Equal(t, radar.TriggerFunding, got.Trigger)
	require.NotNil(t, got.Breakdown)
	assert.Equal(t, 25, got.Breakdown.Recency)
	assert.Equal(t, 16, got.Breakdown.Fit)
	assert.Equal(t, 15, got.Breakdown.Source)
	// The stored score is historical record; backfill never rewrites it.
	assert.Equal(t, 77, got.Score)

	// Signals that already carry both fields are untouched.
	assert.Equal(t, current, s.All()[1])

	// A second pass finds nothing left to do.
	assert.Equal(t, 0, s.Migrate(scorer, fixedFit{rating: 80}))
}

// Persisting leaves no stray temp files behind in the data dir.
func TestPersistLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signals.json")

	s := store.OpenSignals(path, zap.NewNop())
	s.UpsertIfNew(testSignal("aaa", "first"))
	require.NoError(t, s.Persist())
	require.NoError(t, s.Persist())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "signals.json", entries[0].Name())
}
