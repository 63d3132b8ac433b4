package fetch

import (
	"fmt"
	"time"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
)

// Config configures fetching behavior
type Config struct {
	ConcurrencyLimit int           `json:"concurrency_limit" yaml:"concurrency_limit"`
	MaxRetries       int           `json:"max_retries" yaml:"max_retries"` // total attempts per URL
	BackoffMin       time.Duration `json:"backoff_min" yaml:"backoff_min"`
	BackoffMax       time.Duration `json:"backoff_max" yaml:"backoff_max"`
	RequestTimeout   time.Duration `json:"request_timeout" yaml:"request_timeout"`
	MaxBodyBytes     int64         `json:"max_body_bytes" yaml:"max_body_bytes"`
	UserAgents       []string      `json:"user_agents,omitempty" yaml:"user_agents,omitempty"`
	Proxies          []string      `json:"proxies,omitempty" yaml:"proxies,omitempty"`
}

// DefaultConfig returns default fetch configuration
func DefaultConfig() *Config {
	return &Config{
		ConcurrencyLimit: 5,
		MaxRetries:       3,
		BackoffMin:       4 * time.Second,
		BackoffMax:       30 * time.Second,
		RequestTimeout:   30 * time.Second,
		MaxBodyBytes:     10 * 1024 * 1024, // 10MB
	}
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	switch {
	case c.ConcurrencyLimit <= 0:
		return fmt.Errorf("%w: concurrency limit must be positive, got %d", document.ErrInvalidConfig, c.ConcurrencyLimit)
	case c.MaxRetries <= 0:
		return fmt.Errorf("%w: max retries must be positive, got %d", document.ErrInvalidConfig, c.MaxRetries)
	case c.BackoffMin <= 0:
		return fmt.Errorf("%w: backoff min must be positive, got %s", document.ErrInvalidConfig, c.BackoffMin)
	case c.BackoffMax < c.BackoffMin:
		return fmt.Errorf("%w: backoff max %s is below backoff min %s", document.ErrInvalidConfig, c.BackoffMax, c.BackoffMin)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request timeout must be positive, got %s", document.ErrInvalidConfig, c.RequestTimeout)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max body bytes must be positive, got %d", document.ErrInvalidConfig, c.MaxBodyBytes)
	}
	return nil
}
