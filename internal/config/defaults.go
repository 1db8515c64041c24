package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultOutDir      = "."
	DefaultSuffix      = "_output.sdf"
	DefaultFingerprint = "topological"
	DefaultMatch       = "fingerprint"
	DefaultThreshold   = 1.0

	DefaultSearchURL      = "https://search.rcsb.org/rcsbsearch/v2/query"
	DefaultSiteURL        = "https://www.rcsb.org"
	DefaultFilesURL       = "https://files.rcsb.org"
	DefaultScraperTimeout = 60 * time.Second
	DefaultUserAgent      = "drugkit/1.0"

	DefaultMetricsNamespace = "drugkit"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "drugkit-outputs"
	DefaultMinIORegion   = "us-east-1"
)

// ApplyDefaults fills every zero-value field in cfg with its default.  Fields
// already set by the caller are left unchanged so explicit configuration
// always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Intersect ─────────────────────────────────────────────────────────────
	if cfg.Intersect.OutDir == "" {
		cfg.Intersect.OutDir = DefaultOutDir
	}
	if cfg.Intersect.Suffix == "" {
		cfg.Intersect.Suffix = DefaultSuffix
	}
	if cfg.Intersect.Fingerprint == "" {
		cfg.Intersect.Fingerprint = DefaultFingerprint
	}
	if cfg.Intersect.Match == "" {
		cfg.Intersect.Match = DefaultMatch
	}
	if cfg.Intersect.Threshold == 0 {
		cfg.Intersect.Threshold = DefaultThreshold
	}

	// ── Scraper ───────────────────────────────────────────────────────────────
	if cfg.Scraper.SearchURL == "" {
		cfg.Scraper.SearchURL = DefaultSearchURL
	}
	if cfg.Scraper.SiteURL == "" {
		cfg.Scraper.SiteURL = DefaultSiteURL
	}
	if cfg.Scraper.FilesURL == "" {
		cfg.Scraper.FilesURL = DefaultFilesURL
	}
	if cfg.Scraper.Timeout == 0 {
		cfg.Scraper.Timeout = DefaultScraperTimeout
	}
	if cfg.Scraper.UserAgent == "" {
		cfg.Scraper.UserAgent = DefaultUserAgent
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Storage ───────────────────────────────────────────────────────────────
	if cfg.Storage.MinIO.Endpoint == "" {
		cfg.Storage.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.Storage.MinIO.Bucket == "" {
		cfg.Storage.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.Storage.MinIO.Region == "" {
		cfg.Storage.MinIO.Region = DefaultMinIORegion
	}
}

//Personal.AI order the ending
