package model

import "time"

// Config holds the complete fraudlens configuration
type Config struct {
	Clustering  ClusteringConfig  `yaml:"clustering" mapstructure:"clustering"`
	Scaling     ScalingConfig     `yaml:"scaling" mapstructure:"scaling"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// ClusteringConfig controls the K-Means run
type ClusteringConfig struct {
	Clusters      int     `yaml:"clusters" mapstructure:"clusters"`
	MaxIterations int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance" mapstructure:"tolerance"`
	Seed          int64   `yaml:"seed" mapstructure:"seed"` // 0 means derive from time
}

// ScalingConfig controls feature standardization
type ScalingConfig struct {
	Standardize bool `yaml:"standardize" mapstructure:"standardize"`
}

// CacheConfig controls report caching
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir        string        `yaml:"dir" mapstructure:"dir"` // empty means ~/.fraudlens/cache
	TTL        time.Duration `yaml:"ttl" mapstructure:"ttl"`
	MemoryOnly bool          `yaml:"memory_only" mapstructure:"memory_only"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	TopClusters   int  `yaml:"top_clusters" mapstructure:"top_clusters"` // 0 means all
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig controls the optional narrative summary
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // "" disables, else "openai" or "ollama"
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"-" mapstructure:"-"` // from environment only, never persisted
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerMinute float64 `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// DefaultConfig returns the built-in defaults.
// The clustering defaults match the original study: k=10, 100 iterations,
// tolerance 1e-4.
func DefaultConfig() *Config {
	return &Config{
		Clustering: ClusteringConfig{
			Clusters:      10,
			MaxIterations: 100,
			Tolerance:     1e-4,
			Seed:          0,
		},
		Scaling: ScalingConfig{
			Standardize: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			TopClusters:   0,
			IncludeFooter: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Model:             "gpt-4o-mini",
			RequestsPerMinute: 20,
		},
	}
}
