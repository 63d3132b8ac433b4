package processing

import (
	"fmt"
	"strings"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/Caia-Tech/truthlens-ingest/pkg/logging"
	"github.com/abadojack/whatlanggo"
	"github.com/rs/zerolog"
)

// LanguageDetector identifies the ISO 639-1 language code of a text
type LanguageDetector interface {
	Detect(text string) (string, error)
}

// WhatlangDetector detects languages with trigram profiles. It holds no
// mutable state and is safe for concurrent use.
type WhatlangDetector struct{}

// NewWhatlangDetector creates a detector
func NewWhatlangDetector() *WhatlangDetector {
	return &WhatlangDetector{}
}

func (d *WhatlangDetector) Detect(text string) (string, error) {
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		return "", fmt.Errorf("no language detected")
	}
	return code, nil
}

// ValidationConfig configures document validation
type ValidationConfig struct {
	MinWords         int    `json:"min_words" yaml:"min_words"`
	RequiredLanguage string `json:"required_language" yaml:"required_language"`
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MinWords:         50,
		RequiredLanguage: "en",
	}
}

// Validate checks the configuration for values that cannot work
func (c *ValidationConfig) Validate() error {
	if c.MinWords < 0 {
		return fmt.Errorf("%w: min words cannot be negative, got %d", document.ErrInvalidConfig, c.MinWords)
	}
	if c.RequiredLanguage == "" {
		return fmt.Errorf("%w: required language cannot be empty", document.ErrInvalidConfig)
	}
	return nil
}

// Validator rejects documents that are too short or in the wrong language
type Validator struct {
	normalizer       *Normalizer
	detector         LanguageDetector
	requiredLanguage string
	logger           zerolog.Logger
}

// NewValidator creates a validator. The detector is shared and never mutated.
func NewValidator(normalizer *Normalizer, detector LanguageDetector, requiredLanguage string) *Validator {
	if normalizer == nil {
		normalizer = NewNormalizer()
	}
	if detector == nil {
		detector = NewWhatlangDetector()
	}
	return &Validator{
		normalizer:       normalizer,
		detector:         detector,
		requiredLanguage: strings.ToLower(requiredLanguage),
		logger:           logging.GetLogger("validator"),
	}
}

// Validate checks text in order: non-empty, at least minWords words, then
// the required language. The first failing check decides the outcome.
func (v *Validator) Validate(text string, minWords int) document.ValidationOutcome {
	normalized, err := v.normalizer.Normalize(text)
	if err != nil {
		return invalid(fmt.Sprintf("text could not be normalized: %v", err))
	}
	if normalized == "" {
		return invalid("text is empty after normalization")
	}

	if words := len(strings.Fields(normalized)); words < minWords {
		return invalid(fmt.Sprintf("text too short: %d words < %d required", words, minWords))
	}

	lang, err := v.detector.Detect(normalized)
	if err != nil {
		v.logger.Debug().Err(err).Msg("Language detection failed")
		return invalid(fmt.Sprintf("language detection failed: %v", err))
	}
	if lang != v.requiredLanguage {
		return invalid(fmt.Sprintf("language %q does not match required %q", lang, v.requiredLanguage))
	}

	return document.ValidationOutcome{IsValid: true, Reasons: []string{}}
}

func invalid(reason string) document.ValidationOutcome {
	return document.ValidationOutcome{IsValid: false, Reasons: []string{reason}}
}
