package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
log:
  level: debug
  format: console
intersect:
  out_dir: /tmp/drugkit
  suffix: _common.sdf
  fingerprint: morgan
  match: similarity
  threshold: 0.9
scraper:
  timeout: 30s
metrics:
  textfile: /tmp/drugkit.prom
storage:
  minio:
    enabled: true
    endpoint: "localhost:9000"
    access_key: "key"
    secret_key: "secret"
    bucket: "ligands"
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drugkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "/tmp/drugkit", cfg.Intersect.OutDir)
	assert.Equal(t, "_common.sdf", cfg.Intersect.Suffix)
	assert.Equal(t, "morgan", cfg.Intersect.Fingerprint)
	assert.Equal(t, "similarity", cfg.Intersect.Match)
	assert.InDelta(t, 0.9, cfg.Intersect.Threshold, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, "/tmp/drugkit.prom", cfg.Metrics.Textfile)
	assert.True(t, cfg.Storage.MinIO.Enabled)
	assert.Equal(t, "ligands", cfg.Storage.MinIO.Bucket)

	// Unset fields fall back to defaults.
	assert.Equal(t, DefaultSearchURL, cfg.Scraper.SearchURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValue(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "intersect:\n  fingerprint: maccs\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("DRUGKIT_INTERSECT_SUFFIX", "_env.sdf")
	t.Setenv("DRUGKIT_LOG_LEVEL", "warn")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, "_env.sdf", cfg.Intersect.Suffix)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DRUGKIT_INTERSECT_OUT_DIR", "/data/out")
	t.Setenv("DRUGKIT_INTERSECT_MATCH", "exact")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/data/out", cfg.Intersect.OutDir)
	assert.Equal(t, "exact", cfg.Intersect.Match)
	assert.Equal(t, DefaultSuffix, cfg.Intersect.Suffix)
}

func TestLoad_EmptyPathUsesEnv(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFingerprint, cfg.Intersect.Fingerprint)
}

//Personal.AI order the ending
