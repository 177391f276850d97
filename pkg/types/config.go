package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds one request end to end, connection through body read.
	// The download stages default this to 300s (prd002-documents R3.1).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "confcorpus/0.1"). Per prd001-crawl R4.3.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CrawlConfig holds settings for the crawl stage.
// Per prd001-crawl R1.1, R1.4, R3.2-R3.3.
type CrawlConfig struct {
	HTTPConfig `yaml:",inline"`

	// ListingURL is the conference proceedings listing page.
	ListingURL string `json:"listing_url" yaml:"listing_url"`

	// RecordsDir is the directory metadata records are written to.
	RecordsDir string `json:"records_dir" yaml:"records_dir"`

	// PageDelay is the minimum spacing between page requests (default 1s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// ManifestPath, when set, is where the crawl manifest YAML is written.
	ManifestPath string `json:"manifest_path,omitempty" yaml:"manifest_path,omitempty"`
}

// DownloadConfig holds settings shared by the document and source download
// stages. Per prd002-documents R1.1, R4.1, R5.1, R5.3.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// RecordsDir is the directory holding *.json metadata records.
	RecordsDir string `json:"records_dir" yaml:"records_dir"`

	// OutputDir is the directory artifacts are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Concurrency caps the number of fetches in flight at once (default 10).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// LogFile is the append-only run log path. Empty disables file logging.
	LogFile string `json:"log_file,omitempty" yaml:"log_file,omitempty"`

	// NoProgress disables the interactive progress bar.
	NoProgress bool `json:"no_progress,omitempty" yaml:"no_progress,omitempty"`
}

// BundleConfig holds settings for the source-bundle stage.
// Per prd003-sources R2.5, R4.1.
type BundleConfig struct {
	DownloadConfig `yaml:",inline"`

	// ResolverDelay is the minimum spacing between identifier-resolution
	// calls, shared across all in-flight fetches (default 3s).
	ResolverDelay time.Duration `json:"resolver_delay" yaml:"resolver_delay"`

	// Unpack controls whether downloaded bundles are expanded into
	// per-paper directories.
	Unpack bool `json:"unpack" yaml:"unpack"`
}

// DigestConfig holds settings for the digest stage.
// Per prd004-digest R1.1.
type DigestConfig struct {
	// RecordsDir is the directory holding *.json metadata records.
	RecordsDir string `json:"records_dir" yaml:"records_dir"`

	// OutputPath is the digest text file to write.
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Crawl     CrawlConfig    `json:"crawl" yaml:"crawl"`
	Documents DownloadConfig `json:"documents" yaml:"documents"`
	Sources   BundleConfig   `json:"sources" yaml:"sources"`
	Digest    DigestConfig   `json:"digest" yaml:"digest"`
}
