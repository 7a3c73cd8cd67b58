package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "source-aggregator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the number of sources the caller wants (default 10).
	// Providers are over-fetched beyond this to survive dedup and the
	// domain-diversity cap.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxSourcesPerDomain caps how many sources any one registrable
	// domain may contribute to a merged batch (default 2).
	MaxSourcesPerDomain int `json:"max_sources_per_domain" yaml:"max_sources_per_domain"`

	// OverFetchFactor is the per-provider request multiplier applied to
	// MaxResults to compensate for dedup losses (default 2.0).
	OverFetchFactor float64 `json:"over_fetch_factor" yaml:"over_fetch_factor"`

	// EnableExa controls whether the Exa backend is used.
	EnableExa bool `json:"enable_exa" yaml:"enable_exa"`

	// EnablePerplexity controls whether the Perplexity backend is used.
	EnablePerplexity bool `json:"enable_perplexity" yaml:"enable_perplexity"`

	// ExaAPIKey authenticates against the Exa search API.
	ExaAPIKey string `json:"exa_api_key,omitempty" yaml:"exa_api_key,omitempty"`

	// PerplexityAPIKey authenticates against the Perplexity search API.
	PerplexityAPIKey string `json:"perplexity_api_key,omitempty" yaml:"perplexity_api_key,omitempty"`
}

// FetchConfig holds settings for the content-fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxConcurrent is the number of fetches allowed in flight at once
	// (default 3). Must be positive.
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`

	// Retries is the number of retry attempts after a failed extraction
	// (default 2). A value of 2 means at most 3 attempts per URL.
	Retries int `json:"retries" yaml:"retries"`

	// MaxWords is the word budget for extracted content (default 500).
	MaxWords int `json:"max_words" yaml:"max_words"`

	// BurstPerSecond limits how many fetches may start within one second
	// (default 5).
	BurstPerSecond int `json:"burst_per_second" yaml:"burst_per_second"`
}

// StoreConfig holds settings for the project source store.
type StoreConfig struct {
	// DataDir is the base directory for persisted data (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search SearchConfig `json:"search" yaml:"search"`
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch"`
	Store  StoreConfig  `json:"store" yaml:"store"`
}
