// Package config provides configuration loading, defaults, and validation for
// drugkit.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "DRUGKIT"

// boundKeys lists every leaf key so that AutomaticEnv overrides are visible to
// Unmarshal even when the key is absent from the config file.
var boundKeys = []string{
	"log.level", "log.format", "log.output_paths", "log.error_output_paths",
	"intersect.out_dir", "intersect.suffix", "intersect.fingerprint", "intersect.match", "intersect.threshold",
	"scraper.search_url", "scraper.site_url", "scraper.files_url", "scraper.timeout", "scraper.user_agent", "scraper.out_dir",
	"metrics.namespace", "metrics.textfile",
	"storage.minio.enabled", "storage.minio.endpoint", "storage.minio.access_key", "storage.minio.secret_key",
	"storage.minio.use_ssl", "storage.minio.bucket", "storage.minio.region", "storage.minio.prefix",
}

// newViper builds a pre-configured Viper instance: YAML file type, DRUGKIT_
// env prefix, automatic env binding, and a key replacer that maps "." → "_"
// so that "intersect.out_dir" resolves to "DRUGKIT_INTERSECT_OUT_DIR".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range boundKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the YAML file at configPath, merges any DRUGKIT_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  An empty configPath is equivalent to LoadFromEnv.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}

	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from DRUGKIT_* environment variables
// and defaults, with no config file required.
//
//	DRUGKIT_<SECTION>_<FIELD>   e.g.  DRUGKIT_INTERSECT_SUFFIX, DRUGKIT_LOG_LEVEL
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

//Personal.AI order the ending
