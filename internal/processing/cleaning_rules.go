package processing

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	disallowedChars = regexp.MustCompile(`[^\p{L}\p{N}_ .,!?\-]+`)
	spaceRuns       = regexp.MustCompile(` {2,}`)
)

// EntityDecodingRule decodes HTML character references
type EntityDecodingRule struct{}

func (r *EntityDecodingRule) Name() string {
	return "entity_decoding"
}

func (r *EntityDecodingRule) Apply(content string) (string, error) {
	return html.UnescapeString(content), nil
}

// AccentFoldingRule applies compatibility decomposition and drops combining marks
type AccentFoldingRule struct{}

func (r *AccentFoldingRule) Name() string {
	return "accent_folding"
}

func (r *AccentFoldingRule) Apply(content string) (string, error) {
	// Chains hold state, so each call builds its own
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, content)
	if err != nil {
		return "", err
	}
	return folded, nil
}

// LowercaseRule lowercases all letters
type LowercaseRule struct{}

func (r *LowercaseRule) Name() string {
	return "lowercase"
}

func (r *LowercaseRule) Apply(content string) (string, error) {
	return strings.ToLower(content), nil
}

// CharacterSetRule keeps word characters, spaces and basic punctuation.
// Everything else, newlines included, becomes a space.
type CharacterSetRule struct{}

func (r *CharacterSetRule) Name() string {
	return "character_set"
}

func (r *CharacterSetRule) Apply(content string) (string, error) {
	return disallowedChars.ReplaceAllString(content, " "), nil
}

// WhitespaceNormalizationRule collapses space runs and trims the ends
type WhitespaceNormalizationRule struct{}

func (r *WhitespaceNormalizationRule) Name() string {
	return "whitespace_normalization"
}

func (r *WhitespaceNormalizationRule) Apply(content string) (string, error) {
	return strings.TrimSpace(spaceRuns.ReplaceAllString(content, " ")), nil
}
