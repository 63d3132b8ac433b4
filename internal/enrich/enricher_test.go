package enrich

import (
	"testing"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/stretchr/testify/assert"
)

type panickingAnalyzer struct{}

func (panickingAnalyzer) Compound(string) float64 {
	panic("lexicon unavailable")
}

type fixedAnalyzer float64

func (f fixedAnalyzer) Compound(string) float64 {
	return float64(f)
}

func TestEnrich_Citations(t *testing.T) {
	enricher := New(nil)

	withCitation := enricher.Enrich(document.CleanedDocument{
		SourceURL: "https://example.com/a",
		Text:      "according to smith et al. 2023 temperatures rose",
		Extracted: "According to Smith et al. (2023), temperatures rose.",
	})
	assert.True(t, withCitation.HasCitations)

	without := enricher.Enrich(document.CleanedDocument{
		SourceURL: "https://example.com/b",
		Text:      "the weather was mild all week",
		Extracted: "The weather was mild all week.",
	})
	assert.False(t, without.HasCitations)
}

func TestEnrich_FallsBackToText(t *testing.T) {
	enriched := New(fixedAnalyzer(0)).Enrich(document.CleanedDocument{
		SourceURL: "https://example.com",
		Text:      "see doi:10.1000/182 for details.",
	})

	assert.True(t, enriched.HasCitations)
	assert.NotZero(t, enriched.Readability)
	assert.Equal(t, document.SentimentNeutral, enriched.Sentiment)
}

func TestEnrich_SafeDefaultsOnPanic(t *testing.T) {
	enriched := New(panickingAnalyzer{}).Enrich(document.CleanedDocument{
		SourceURL: "https://example.com",
		Text:      "great results reported by smith et al.",
		Extracted: "Great results reported by Smith et al. (2020).",
	})

	assert.Equal(t, "https://example.com", enriched.SourceURL)
	assert.Equal(t, "great results reported by smith et al.", enriched.Text)
	assert.Equal(t, 0.0, enriched.Readability)
	assert.Equal(t, document.SentimentNeutral, enriched.Sentiment)
	assert.False(t, enriched.HasCitations)
	assert.NoError(t, enriched.Validate())
}

func TestEnrich_SentimentLabels(t *testing.T) {
	tests := []struct {
		compound float64
		expected document.Sentiment
	}{
		{0.9, document.SentimentPositive},
		{0.05, document.SentimentPositive},
		{0.049, document.SentimentNeutral},
		{0, document.SentimentNeutral},
		{-0.049, document.SentimentNeutral},
		{-0.05, document.SentimentNegative},
		{-0.8, document.SentimentNegative},
	}

	for _, tt := range tests {
		enriched := New(fixedAnalyzer(tt.compound)).Enrich(document.CleanedDocument{Text: "anything"})
		assert.Equal(t, tt.expected, enriched.Sentiment, "compound %v", tt.compound)
	}
}

func TestHasCitations(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"Smith et al. (2023) found a link.", true},
		{"As shown in [12], the effect holds.", true},
		{"Published (1998) in a journal.", true},
		{"See DOI:10.1038/nphys1170.", true},
		{"Source: https://example.org/report?id=4", true},
		{"The results were clear and consistent.", false},
		{"In 2023 the price rose by (12) percent.", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasCitations(tt.text))
		})
	}
}
