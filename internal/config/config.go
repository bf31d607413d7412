// Package config loads and validates radar configuration via Viper.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Roster   RosterConfig   `mapstructure:"roster"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DataConfig sets where radar keeps its own documents.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// RosterConfig points at the external watchlist document. Seeds (site bias,
// region abbreviations) are read from a "seeds" directory beside it.
type RosterConfig struct {
	Path string `mapstructure:"path"`
}

// PipelineConfig governs one ingestion run.
type PipelineConfig struct {
	MaxItemsPerEngine int    `mapstructure:"max_items_per_engine"`
	FreshnessDays     int    `mapstructure:"freshness_days"`
	Threshold         int    `mapstructure:"threshold"`
	WatchlistLimit    int    `mapstructure:"watchlist_limit"`
	UserAgent         string `mapstructure:"user_agent"`
}

// HTTPConfig configures feed retrieval behavior.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// ArchiveConfig controls raw feed snapshot archival.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Backend   string `mapstructure:"backend"` // "fs" or "gcs"
	Dir       string `mapstructure:"dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// NotifyConfig controls intake handoff publishing.
type NotifyConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProjectID string `mapstructure:"project_id"`
	Topic     string `mapstructure:"topic"`
}

// ServerConfig controls the read-only HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "data")
	v.SetDefault("roster.path", filepath.Join("..", "scout", "data", "scout_master.json"))
	v.SetDefault("pipeline.max_items_per_engine", 6)
	v.SetDefault("pipeline.freshness_days", 120)
	v.SetDefault("pipeline.threshold", 70)
	v.SetDefault("pipeline.watchlist_limit", 0)
	v.SetDefault("pipeline.user_agent", "radar-bot/1.0")
	v.SetDefault("http.timeout_seconds", 20)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.backend", "fs")
	v.SetDefault("archive.prefix", "feeds")
	v.SetDefault("notify.enabled", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir must be set")
	}
	if c.Pipeline.MaxItemsPerEngine <= 0 {
		return fmt.Errorf("pipeline.max_items_per_engine must be > 0")
	}
	if c.Pipeline.FreshnessDays <= 0 {
		return fmt.Errorf("pipeline.freshness_days must be > 0")
	}
	if c.Pipeline.Threshold < 0 || c.Pipeline.Threshold > 100 {
		return fmt.Errorf("pipeline.threshold must be in [0,100]")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Archive.Enabled {
		switch c.Archive.Backend {
		case "fs":
			if c.Archive.Dir == "" {
				return fmt.Errorf("archive.dir must be set when archive.backend is 'fs'")
			}
		case "gcs":
			if c.Archive.GCSBucket == "" {
				return fmt.Errorf("archive.gcs_bucket must be set when archive.backend is 'gcs'")
			}
		default:
			return fmt.Errorf("unknown archive.backend: %s", c.Archive.Backend)
		}
	}
	if c.Notify.Enabled && (c.Notify.ProjectID == "" || c.Notify.Topic == "") {
		return fmt.Errorf("notify.project_id and notify.topic must be set when notify is enabled")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}

// FetchTimeout converts the HTTP timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// SignalsPath is the canonical location of the signal store document.
func (c Config) SignalsPath() string {
	return filepath.Join(c.Data.Dir, "radar_master.json")
}

// IntakePath is the canonical location of the intake queue document.
func (c Config) IntakePath() string {
	return filepath.Join(c.Data.Dir, "intake_signals.json")
}

// ReportPath is where the Markdown digest is regenerated each run.
func (c Config) ReportPath() string {
	return filepath.Join(c.Data.Dir, "radar_report.md")
}

// RunLogPath is the append-only diagnostic log.
func (c Config) RunLogPath() string {
	return filepath.Join(c.Data.Dir, "radar.log")
}
