// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Engine defaults.
const (
	DefaultMaxSuggestions = 5
	DefaultDebounce       = 300 * time.Millisecond
)

// EngineConfig holds the detection engine's ranking settings.
type EngineConfig struct {
	// MinConfidence drops candidates scoring below this level (default low).
	MinConfidence Confidence `json:"min_confidence" yaml:"min_confidence"`

	// MaxSuggestions caps the number of ranked candidates (default 5).
	MaxSuggestions int `json:"max_suggestions" yaml:"max_suggestions"`

	// Debounce is the keystroke delay used by the detection state. The
	// engine itself ignores it.
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}

// DefaultEngineConfig returns the engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MinConfidence:  ConfidenceLow,
		MaxSuggestions: DefaultMaxSuggestions,
		Debounce:       DefaultDebounce,
	}
}

// EngineConfigPatch is a partial EngineConfig. Nil fields keep their
// current values when merged.
type EngineConfigPatch struct {
	MinConfidence  *Confidence
	MaxSuggestions *int
	Debounce       *time.Duration
}

// Apply returns cfg with the non-nil fields of p merged over it.
func (p EngineConfigPatch) Apply(cfg EngineConfig) EngineConfig {
	if p.MinConfidence != nil {
		cfg.MinConfidence = *p.MinConfidence
	}
	if p.MaxSuggestions != nil {
		cfg.MaxSuggestions = *p.MaxSuggestions
	}
	if p.Debounce != nil {
		cfg.Debounce = *p.Debounce
	}
	return cfg
}

// HTTPConfig holds shared HTTP settings used by the metadata plugins.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "study-shelf/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PluginConfig holds settings for the resource plugins.
type PluginConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxSearchResults bounds results returned by search-type plugins (default 10).
	MaxSearchResults int `json:"max_search_results" yaml:"max_search_results"`

	// GoogleBooksAPIKey is an optional key for higher Google Books quotas.
	GoogleBooksAPIKey string `json:"google_books_api_key,omitempty" yaml:"google_books_api_key,omitempty"`

	// CrossRefMailto is sent to CrossRef to join its polite pool.
	CrossRefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty"`
}

// StoreConfig holds settings for the resource store.
type StoreConfig struct {
	// DataDir is the directory holding study-shelf.db and exports.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of listed resources (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// AppConfig groups all configuration sections.
type AppConfig struct {
	Engine  EngineConfig `json:"engine" yaml:"engine"`
	Plugins PluginConfig `json:"plugins" yaml:"plugins"`
	Store   StoreConfig  `json:"store" yaml:"store"`
}
