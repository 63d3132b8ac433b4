package pipeline

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Caia-Tech/truthlens-ingest/internal/dedup"
	"github.com/Caia-Tech/truthlens-ingest/internal/fetch"
	"github.com/Caia-Tech/truthlens-ingest/internal/processing"
	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/Caia-Tech/truthlens-ingest/pkg/extractor"
	"github.com/Caia-Tech/truthlens-ingest/pkg/logging"
	"gopkg.in/yaml.v3"
)

// envPrefix prefixes every environment override
const envPrefix = "TRUTHLENS_"

type (
	FetchConfig      = fetch.Config
	ExtractionConfig = extractor.Config
	ValidationConfig = processing.ValidationConfig
	DedupConfig      = dedup.Config
)

// PipelineConfig holds complete pipeline configuration
type PipelineConfig struct {
	// Logging configuration
	Logging *logging.LogConfig `json:"logging" yaml:"logging"`

	// Fetch stage: concurrency, retries, timeouts, identities and proxies
	Fetch *FetchConfig `json:"fetch" yaml:"fetch"`

	// Per-domain politeness
	RateLimit *RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`

	Extraction *ExtractionConfig `json:"extraction" yaml:"extraction"`
	Validation *ValidationConfig `json:"validation" yaml:"validation"`
	Dedup      *DedupConfig      `json:"dedup" yaml:"dedup"`

	// Metrics exposition
	Metrics *MetricsConfig `json:"metrics" yaml:"metrics"`
}

// RateLimitConfig holds per-domain rate limiting settings
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second_per_domain" yaml:"requests_per_second_per_domain"`
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"` // listen address for /metrics, empty disables the listener
}

// DefaultPipelineConfig returns a complete default configuration
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Logging: logging.DefaultLogConfig(),
		Fetch:   fetch.DefaultConfig(),
		RateLimit: &RateLimitConfig{
			RequestsPerSecond: 2.0,
		},
		Extraction: extractor.DefaultConfig(),
		Validation: processing.DefaultValidationConfig(),
		Dedup:      dedup.DefaultConfig(),
		Metrics: &MetricsConfig{
			Enabled: true,
		},
	}
}

// ProductionPipelineConfig returns production-ready configuration
func ProductionPipelineConfig() *PipelineConfig {
	config := DefaultPipelineConfig()

	// Production logging
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Production fetching
	config.Fetch.ConcurrencyLimit = 10
	config.Metrics.Addr = ":9090"

	return config
}

// DevelopmentPipelineConfig returns development configuration
func DevelopmentPipelineConfig() *PipelineConfig {
	config := DefaultPipelineConfig()

	// Development logging
	config.Logging.Level = "debug"
	config.Logging.Format = "pretty"
	config.Logging.Console = true

	// Development fetching
	config.Fetch.ConcurrencyLimit = 2
	config.Fetch.BackoffMin = 500 * time.Millisecond
	config.Fetch.BackoffMax = 5 * time.Second
	config.Fetch.RequestTimeout = 10 * time.Second

	return config
}

// LoadConfig reads a YAML file over the defaults, then applies environment
// overrides. An empty path loads defaults plus environment only.
func LoadConfig(path string) (*PipelineConfig, error) {
	config := DefaultPipelineConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: parse config %s: %v", document.ErrInvalidConfig, path, err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnv overrides settings from TRUTHLENS_* environment variables
func (c *PipelineConfig) ApplyEnv() error {
	c.fillDefaults()

	overrides := []struct {
		name  string
		apply func(string) error
	}{
		{"CONCURRENCY_LIMIT", intSetter(&c.Fetch.ConcurrencyLimit)},
		{"MAX_RETRIES", intSetter(&c.Fetch.MaxRetries)},
		{"RETRY_MIN_DELAY", durationSetter(&c.Fetch.BackoffMin)},
		{"RETRY_MAX_DELAY", durationSetter(&c.Fetch.BackoffMax)},
		{"REQUEST_TIMEOUT", durationSetter(&c.Fetch.RequestTimeout)},
		{"REQUESTS_PER_SECOND", floatSetter(&c.RateLimit.RequestsPerSecond)},
		{"MIN_WORDS", intSetter(&c.Validation.MinWords)},
		{"REQUIRED_LANGUAGE", func(v string) error { c.Validation.RequiredLanguage = v; return nil }},
		{"DEDUP_THRESHOLD", floatSetter(&c.Dedup.Threshold)},
		{"LOG_LEVEL", func(v string) error { c.Logging.Level = v; return nil }},
	}

	for _, o := range overrides {
		value, ok := os.LookupEnv(envPrefix + o.name)
		if !ok || value == "" {
			continue
		}
		if err := o.apply(value); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", document.ErrInvalidConfig, envPrefix, o.name, value, err)
		}
	}

	return nil
}

// Validate checks every section of the configuration
func (c *PipelineConfig) Validate() error {
	c.fillDefaults()

	if err := c.Fetch.Validate(); err != nil {
		return err
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: requests per second must be positive, got %g", document.ErrInvalidConfig, c.RateLimit.RequestsPerSecond)
	}
	if err := c.Validation.Validate(); err != nil {
		return err
	}
	if c.Extraction.MinReadableChars < 0 {
		return fmt.Errorf("%w: min readable chars cannot be negative", document.ErrInvalidConfig)
	}
	return c.Dedup.Validate()
}

// fillDefaults replaces missing sections with their defaults
func (c *PipelineConfig) fillDefaults() {
	defaults := DefaultPipelineConfig()
	if c.Logging == nil {
		c.Logging = defaults.Logging
	}
	if c.Fetch == nil {
		c.Fetch = defaults.Fetch
	}
	if c.RateLimit == nil {
		c.RateLimit = defaults.RateLimit
	}
	if c.Extraction == nil {
		c.Extraction = defaults.Extraction
	}
	if c.Validation == nil {
		c.Validation = defaults.Validation
	}
	if c.Dedup == nil {
		c.Dedup = defaults.Dedup
	}
	if c.Metrics == nil {
		c.Metrics = defaults.Metrics
	}
}

func intSetter(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func floatSetter(dst *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}

// durationSetter accepts Go durations ("4s") or plain seconds ("4")
func durationSetter(dst *time.Duration) func(string) error {
	return func(v string) error {
		if seconds, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = time.Duration(seconds * float64(time.Second))
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}
