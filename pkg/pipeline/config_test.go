package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPipelineConfig(t *testing.T) {
	config := DefaultPipelineConfig()

	assert.Equal(t, 5, config.Fetch.ConcurrencyLimit)
	assert.Equal(t, 2.0, config.RateLimit.RequestsPerSecond)
	assert.Equal(t, 3, config.Fetch.MaxRetries)
	assert.Equal(t, 4*time.Second, config.Fetch.BackoffMin)
	assert.Equal(t, 30*time.Second, config.Fetch.BackoffMax)
	assert.Equal(t, 30*time.Second, config.Fetch.RequestTimeout)
	assert.Equal(t, 50, config.Validation.MinWords)
	assert.Equal(t, "en", config.Validation.RequiredLanguage)
	assert.Equal(t, 0.85, config.Dedup.Threshold)
	assert.Equal(t, 5, config.Dedup.ShingleSize)
	assert.Equal(t, 128, config.Dedup.Permutations)
	assert.NoError(t, config.Validate())
}

func TestConfigVariants(t *testing.T) {
	dev := DevelopmentPipelineConfig()
	assert.Equal(t, "debug", dev.Logging.Level)
	assert.Equal(t, "pretty", dev.Logging.Format)
	assert.NoError(t, dev.Validate())

	prod := ProductionPipelineConfig()
	assert.Equal(t, "json", prod.Logging.Format)
	assert.NotEmpty(t, prod.Metrics.Addr)
	assert.NoError(t, prod.Validate())
}

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truthlens.yaml")
	content := `
fetch:
  concurrency_limit: 8
  backoff_min: 1s
  proxies:
    - http://proxy.internal:3128
rate_limit:
  requests_per_second_per_domain: 0.5
validation:
  required_language: de
dedup:
  similarity_threshold: 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8, config.Fetch.ConcurrencyLimit)
	assert.Equal(t, time.Second, config.Fetch.BackoffMin)
	assert.Equal(t, []string{"http://proxy.internal:3128"}, config.Fetch.Proxies)
	assert.Equal(t, 0.5, config.RateLimit.RequestsPerSecond)
	assert.Equal(t, "de", config.Validation.RequiredLanguage)
	assert.Equal(t, 0.9, config.Dedup.Threshold)

	// Untouched keys keep their defaults
	assert.Equal(t, 3, config.Fetch.MaxRetries)
	assert.Equal(t, 50, config.Validation.MinWords)
	assert.Equal(t, 128, config.Dedup.Permutations)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	malformed := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("fetch: [not, a, map"), 0644))
	_, err = LoadConfig(malformed)
	assert.ErrorIs(t, err, document.ErrInvalidConfig)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("rate_limit:\n  requests_per_second_per_domain: -1\n"), 0644))
	_, err = LoadConfig(invalid)
	assert.ErrorIs(t, err, document.ErrInvalidConfig)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TRUTHLENS_CONCURRENCY_LIMIT", "12")
	t.Setenv("TRUTHLENS_REQUESTS_PER_SECOND", "4.5")
	t.Setenv("TRUTHLENS_MAX_RETRIES", "5")
	t.Setenv("TRUTHLENS_RETRY_MIN_DELAY", "2")
	t.Setenv("TRUTHLENS_RETRY_MAX_DELAY", "1m")
	t.Setenv("TRUTHLENS_REQUEST_TIMEOUT", "15s")
	t.Setenv("TRUTHLENS_MIN_WORDS", "80")
	t.Setenv("TRUTHLENS_REQUIRED_LANGUAGE", "fr")
	t.Setenv("TRUTHLENS_DEDUP_THRESHOLD", "0.8")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 12, config.Fetch.ConcurrencyLimit)
	assert.Equal(t, 4.5, config.RateLimit.RequestsPerSecond)
	assert.Equal(t, 5, config.Fetch.MaxRetries)
	assert.Equal(t, 2*time.Second, config.Fetch.BackoffMin)
	assert.Equal(t, time.Minute, config.Fetch.BackoffMax)
	assert.Equal(t, 15*time.Second, config.Fetch.RequestTimeout)
	assert.Equal(t, 80, config.Validation.MinWords)
	assert.Equal(t, "fr", config.Validation.RequiredLanguage)
	assert.Equal(t, 0.8, config.Dedup.Threshold)
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("TRUTHLENS_MAX_RETRIES", "many")

	_, err := LoadConfig("")
	assert.ErrorIs(t, err, document.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "TRUTHLENS_MAX_RETRIES")
}

func TestValidate_FillsMissingSections(t *testing.T) {
	config := &PipelineConfig{}
	require.NoError(t, config.Validate())

	assert.NotNil(t, config.Fetch)
	assert.NotNil(t, config.Dedup)
	assert.NotNil(t, config.Metrics)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*PipelineConfig)
	}{
		{"zero rate", func(c *PipelineConfig) { c.RateLimit.RequestsPerSecond = 0 }},
		{"zero concurrency", func(c *PipelineConfig) { c.Fetch.ConcurrencyLimit = 0 }},
		{"negative min words", func(c *PipelineConfig) { c.Validation.MinWords = -5 }},
		{"threshold above one", func(c *PipelineConfig) { c.Dedup.Threshold = 1.5 }},
		{"zero shingle size", func(c *PipelineConfig) { c.Dedup.ShingleSize = 0 }},
		{"negative readable chars", func(c *PipelineConfig) { c.Extraction.MinReadableChars = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultPipelineConfig()
			tt.modify(config)
			assert.ErrorIs(t, config.Validate(), document.ErrInvalidConfig)
		})
	}
}
