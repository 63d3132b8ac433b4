package enrich

import (
	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/jonreiter/govader"
)

// Compound score cut-offs for the coarse label
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// SentimentAnalyzer scores text polarity in [-1, 1]
type SentimentAnalyzer interface {
	Compound(text string) float64
}

// Label maps a compound score onto the three sentiment labels
func Label(compound float64) document.Sentiment {
	switch {
	case compound >= PositiveThreshold:
		return document.SentimentPositive
	case compound <= NegativeThreshold:
		return document.SentimentNegative
	default:
		return document.SentimentNeutral
	}
}

// VaderAnalyzer scores text with the VADER lexicon and rules.
// Loading the lexicon is expensive; build one analyzer and share it.
// Scoring only reads the lexicon, so it is safe for concurrent use.
type VaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVaderAnalyzer loads the bundled VADER lexicon
func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Compound returns VADER's normalized compound score
func (a *VaderAnalyzer) Compound(text string) float64 {
	return a.sia.PolarityScores(text).Compound
}
