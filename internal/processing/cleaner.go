package processing

import (
	"fmt"
	"unicode/utf8"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/Caia-Tech/truthlens-ingest/pkg/logging"
	"github.com/rs/zerolog"
)

// NormalizationRule is a single text canonicalization step
type NormalizationRule interface {
	Name() string
	Apply(content string) (string, error)
}

// Normalizer applies its rules in order to canonicalize extracted text.
// The default rule order makes Normalize idempotent.
type Normalizer struct {
	rules  []NormalizationRule
	logger zerolog.Logger
}

// NewNormalizer creates a normalizer with the default rules
func NewNormalizer() *Normalizer {
	return &Normalizer{
		rules: []NormalizationRule{
			&EntityDecodingRule{},
			&AccentFoldingRule{},
			&LowercaseRule{},
			&CharacterSetRule{},
			&WhitespaceNormalizationRule{},
		},
		logger: logging.GetLogger("normalizer"),
	}
}

// Rules returns the rule names in application order
func (n *Normalizer) Rules() []string {
	names := make([]string, len(n.rules))
	for i, rule := range n.rules {
		names[i] = rule.Name()
	}
	return names
}

// Normalize canonicalizes text. Input that is not valid UTF-8 is rejected.
func (n *Normalizer) Normalize(text string) (string, error) {
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", document.ErrInvalidInput)
	}

	normalized := text
	for _, rule := range n.rules {
		out, err := rule.Apply(normalized)
		if err != nil {
			return "", fmt.Errorf("%w: rule %s failed: %v", document.ErrInvalidInput, rule.Name(), err)
		}
		normalized = out
	}

	return normalized, nil
}

// Clean normalizes extracted text into a CleanedDocument, keeping the
// extracted form alongside it
func (n *Normalizer) Clean(sourceURL, extracted string) (document.CleanedDocument, error) {
	text, err := n.Normalize(extracted)
	if err != nil {
		return document.CleanedDocument{}, err
	}

	n.logger.Debug().
		Str("url", sourceURL).
		Int("extracted_length", len(extracted)).
		Int("normalized_length", len(text)).
		Msg("Normalized document")

	return document.CleanedDocument{
		SourceURL: sourceURL,
		Text:      text,
		Extracted: extracted,
	}, nil
}
