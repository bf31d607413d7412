package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerlabs/radar/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, 6, cfg.Pipeline.MaxItemsPerEngine)
	assert.Equal(t, 120, cfg.Pipeline.FreshnessDays)
	assert.Equal(t, 70, cfg.Pipeline.Threshold)
	assert.Equal(t, "radar-bot/1.0", cfg.Pipeline.UserAgent)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout())
	assert.False(t, cfg.Archive.Enabled)
	assert.False(t, cfg.Notify.Enabled)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  dir: /var/lib/radar
pipeline:
  threshold: 85
  max_items_per_engine: 3
archive:
  enabled: true
  backend: fs
  dir: /var/lib/radar/feeds
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/radar", cfg.Data.Dir)
	assert.Equal(t, 85, cfg.Pipeline.Threshold)
	assert.Equal(t, 3, cfg.Pipeline.MaxItemsPerEngine)
	// Unset keys keep their defaults.
	assert.Equal(t, 120, cfg.Pipeline.FreshnessDays)
	assert.Equal(t, "fs", cfg.Archive.Backend)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestPaths(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "radar_master.json"), cfg.SignalsPath())
	assert.Equal(t, filepath.Join("data", "intake_signals.json"), cfg.IntakePath())
	assert.Equal(t, filepath.Join("data", "radar_report.md"), cfg.ReportPath())
	assert.Equal(t, filepath.Join("data", "radar.log"), cfg.RunLogPath())
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		cfg, err := config.Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})
	t.Run("EmptyDataDir", func(t *testing.T) {
		cfg := base()
		cfg.Data.Dir = ""
		assert.Error(t, cfg.Validate())
	})
	t.Run("ThresholdOutOfRange", func(t *testing.T) {
		cfg := base()
		cfg.Pipeline.Threshold = 101
		assert.Error(t, cfg.Validate())
	})
	t.Run("NegativeThreshold", func(t *testing.T) {
		cfg := base()
		cfg.Pipeline.Threshold = -1
		assert.Error(t, cfg.Validate())
	})
	t.Run("ZeroMaxItems", func(t *testing.T) {
		cfg := base()
		cfg.Pipeline.MaxItemsPerEngine = 0
		assert.Error(t, cfg.Validate())
	})
	t.Run("FSArchiveNeedsDir", func(t *testing.T) {
		cfg := base()
		cfg.Archive.Enabled = true
		cfg.Archive.Backend = "fs"
		cfg.Archive.Dir = ""
		assert.Error(t, cfg.Validate())
	})
	t.Run("GCSArchiveNeedsBucket", func(t *testing.T) {
		cfg := base()
		cfg.Archive.Enabled = true
		cfg.Archive.Backend = "gcs"
		assert.Error(t, cfg.Validate())
	})
	t.Run("UnknownArchiveBackend", func(t *testing.T) {
		cfg := base()
		cfg.Archive.Enabled = true
		cfg.Archive.Backend = "tape"
		assert.Error(t, cfg.Validate())
	})
	t.Run("NotifyNeedsProjectAndTopic", func(t *testing.T) {
		cfg := base()
		cfg.Notify.Enabled = true
		cfg.Notify.ProjectID = "proj"
		assert.Error(t, cfg.Validate())
	})
}
