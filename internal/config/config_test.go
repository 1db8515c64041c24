package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultSuffix, cfg.Intersect.Suffix)
	assert.Equal(t, DefaultOutDir, cfg.Intersect.OutDir)
	assert.Equal(t, DefaultFingerprint, cfg.Intersect.Fingerprint)
	assert.Equal(t, DefaultMatch, cfg.Intersect.Match)
	assert.False(t, cfg.Storage.MinIO.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"empty suffix", func(c *Config) { c.Intersect.Suffix = "" }, "intersect.suffix"},
		{"bad fingerprint", func(c *Config) { c.Intersect.Fingerprint = "maccs" }, "intersect.fingerprint"},
		{"bad match", func(c *Config) { c.Intersect.Match = "fuzzy" }, "intersect.match"},
		{"threshold out of range", func(c *Config) {
			c.Intersect.Match = "similarity"
			c.Intersect.Threshold = 1.5
		}, "intersect.threshold"},
		{"missing scraper url", func(c *Config) { c.Scraper.SiteURL = "" }, "scraper"},
		{"export without bucket", func(c *Config) {
			c.Storage.MinIO.Enabled = true
			c.Storage.MinIO.Bucket = ""
		}, "storage.minio.bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_SimilarityThresholdAccepted(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Intersect.Match = "similarity"
	cfg.Intersect.Threshold = 0.85
	assert.NoError(t, cfg.Validate())
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Intersect.Suffix = "_common.sdf"
	cfg.Log.Level = "debug"

	ApplyDefaults(cfg)

	assert.Equal(t, "_common.sdf", cfg.Intersect.Suffix)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultSearchURL, cfg.Scraper.SearchURL)

	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
