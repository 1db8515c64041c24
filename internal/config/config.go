// Package config defines all configuration structures for drugkit.  No I/O
// or parsing logic lives here — only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugkit/pkg/types/molecule"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// IntersectConfig tunes the cross-file intersection pipeline.
type IntersectConfig struct {
	// OutDir is the directory receiving the per-collection output files.
	OutDir string `mapstructure:"out_dir"`

	// Suffix replaces the input file's last extension in output names.
	Suffix string `mapstructure:"suffix"`

	// Fingerprint selects the fingerprint generator: topological | morgan.
	Fingerprint string `mapstructure:"fingerprint"`

	// Match selects the match criterion: fingerprint | exact | similarity.
	Match string `mapstructure:"match"`

	// Threshold is the minimum Tanimoto score in similarity mode.
	Threshold float64 `mapstructure:"threshold"`
}

// ScraperConfig holds the RCSB endpoints used by the scrape pipeline.
type ScraperConfig struct {
	SearchURL string        `mapstructure:"search_url"`
	SiteURL   string        `mapstructure:"site_url"`
	FilesURL  string        `mapstructure:"files_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	OutDir    string        `mapstructure:"out_dir"`
}

// MetricsConfig controls run metrics.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`

	// Textfile, when set, receives the run metrics in Prometheus text format
	// for the node-exporter textfile collector.
	Textfile string `mapstructure:"textfile"`
}

// MinIOConfig holds MinIO / S3-compatible object storage parameters used to
// export intersection outputs.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Prefix    string `mapstructure:"prefix"`
}

// StorageConfig groups object storage settings.
type StorageConfig struct {
	MinIO MinIOConfig `mapstructure:"minio"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object.
type Config struct {
	Log       logging.LogConfig `mapstructure:"log"`
	Intersect IntersectConfig   `mapstructure:"intersect"`
	Scraper   ScraperConfig     `mapstructure:"scraper"`
	Metrics   MetricsConfig     `mapstructure:"metrics"`
	Storage   StorageConfig     `mapstructure:"storage"`
}

// NewDefaultConfig returns a Config with every field set to its default.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Log
	switch c.Log.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Intersect
	if c.Intersect.Suffix == "" {
		return fmt.Errorf("config: intersect.suffix is required")
	}
	if _, err := molecule.ParseFingerprintType(c.Intersect.Fingerprint); err != nil {
		return fmt.Errorf("config: intersect.fingerprint: %w", err)
	}
	mode, err := molecule.ParseMatchMode(c.Intersect.Match)
	if err != nil {
		return fmt.Errorf("config: intersect.match: %w", err)
	}
	if mode == molecule.MatchSimilarity && (c.Intersect.Threshold <= 0 || c.Intersect.Threshold > 1) {
		return fmt.Errorf("config: intersect.threshold %v is out of range (0, 1]", c.Intersect.Threshold)
	}

	// Scraper
	if c.Scraper.SearchURL == "" || c.Scraper.SiteURL == "" || c.Scraper.FilesURL == "" {
		return fmt.Errorf("config: scraper.search_url, site_url and files_url are required")
	}
	if c.Scraper.Timeout < 0 {
		return fmt.Errorf("config: scraper.timeout must be ≥ 0, got %s", c.Scraper.Timeout)
	}

	// Storage
	if c.Storage.MinIO.Enabled {
		if c.Storage.MinIO.Endpoint == "" {
			return fmt.Errorf("config: storage.minio.endpoint is required when export is enabled")
		}
		if c.Storage.MinIO.Bucket == "" {
			return fmt.Errorf("config: storage.minio.bucket is required when export is enabled")
		}
	}

	return nil
}

//Personal.AI order the ending
