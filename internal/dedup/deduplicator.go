package dedup

import (
	"fmt"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/Caia-Tech/truthlens-ingest/pkg/logging"
	"github.com/rs/zerolog"
)

// Config configures near-duplicate detection
type Config struct {
	ShingleSize  int     `json:"shingle_size" yaml:"shingle_size"`
	Permutations int     `json:"minhash_permutations" yaml:"minhash_permutations"`
	Threshold    float64 `json:"similarity_threshold" yaml:"similarity_threshold"`
}

// DefaultConfig returns default deduplication configuration
func DefaultConfig() *Config {
	return &Config{
		ShingleSize:  5,
		Permutations: 128,
		Threshold:    0.85,
	}
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	switch {
	case c.ShingleSize <= 0:
		return fmt.Errorf("%w: shingle size must be positive, got %d", document.ErrInvalidConfig, c.ShingleSize)
	case c.Permutations <= 0:
		return fmt.Errorf("%w: permutations must be positive, got %d", document.ErrInvalidConfig, c.Permutations)
	case c.Threshold <= 0 || c.Threshold > 1:
		return fmt.Errorf("%w: similarity threshold must be in (0, 1], got %g", document.ErrInvalidConfig, c.Threshold)
	}
	return nil
}

// Duplicate records a rejected document and the accepted one it matched
type Duplicate struct {
	SourceURL  string  `json:"source_url"`
	MatchedURL string  `json:"matched_url"`
	Similarity float64 `json:"similarity"`
}

// Deduplicator drops documents that are near-duplicates of earlier ones
type Deduplicator struct {
	config *Config
	hasher *hasher
	logger zerolog.Logger
}

// New creates a deduplicator
func New(config *Config) (*Deduplicator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Deduplicator{
		config: config,
		hasher: newHasher(config.Permutations),
		logger: logging.GetLogger("dedup"),
	}, nil
}

// Signature computes the MinHash signature of text
func (d *Deduplicator) Signature(text string) Signature {
	return d.hasher.signature(Shingles(text, d.config.ShingleSize))
}

// Deduplicate keeps documents in arrival order, rejecting each one whose
// similarity to an already kept document reaches the threshold. Every
// kept pair is below the threshold.
func (d *Deduplicator) Deduplicate(docs []document.EnrichedDocument) ([]document.EnrichedDocument, []Duplicate) {
	kept := make([]document.EnrichedDocument, 0, len(docs))
	keptSigs := make([]Signature, 0, len(docs))
	duplicates := []Duplicate{}

	for _, doc := range docs {
		sig := d.Signature(doc.Text)

		match := -1
		var similarity float64
		for i, prior := range keptSigs {
			if s := Similarity(sig, prior); s >= d.config.Threshold {
				match, similarity = i, s
				break
			}
		}

		if match >= 0 {
			duplicates = append(duplicates, Duplicate{
				SourceURL:  doc.SourceURL,
				MatchedURL: kept[match].SourceURL,
				Similarity: similarity,
			})
			d.logger.Debug().
				Str("url", doc.SourceURL).
				Str("matched_url", kept[match].SourceURL).
				Float64("similarity", similarity).
				Msg("Dropped near-duplicate")
			continue
		}

		kept = append(kept, doc)
		keptSigs = append(keptSigs, sig)
	}

	d.logger.Info().
		Int("input", len(docs)).
		Int("kept", len(kept)).
		Int("duplicates", len(duplicates)).
		Msg("Deduplication completed")

	return kept, duplicates
}
