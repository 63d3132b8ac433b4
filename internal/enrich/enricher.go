package enrich

import (
	"fmt"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/Caia-Tech/truthlens-ingest/pkg/logging"
	"github.com/rs/zerolog"
)

// Enricher attaches readability, sentiment and citation metadata
type Enricher struct {
	analyzer SentimentAnalyzer
	logger   zerolog.Logger
}

// New creates an enricher around a shared sentiment analyzer
func New(analyzer SentimentAnalyzer) *Enricher {
	if analyzer == nil {
		analyzer = NewVaderAnalyzer()
	}
	return &Enricher{
		analyzer: analyzer,
		logger:   logging.GetLogger("enricher"),
	}
}

// Enrich never fails: if any metric cannot be computed the record carries
// the defaults 0 readability, neutral sentiment and no citations.
// Readability and citations read the extracted text when available since
// normalization removes the punctuation they depend on.
func (e *Enricher) Enrich(doc document.CleanedDocument) (enriched document.EnrichedDocument) {
	enriched = document.EnrichedDocument{
		SourceURL: doc.SourceURL,
		Text:      doc.Text,
		Sentiment: document.SentimentNeutral,
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Err(fmt.Errorf("%v", r)).
				Str("url", doc.SourceURL).
				Msg("Enrichment failed, using defaults")
			enriched = document.EnrichedDocument{
				SourceURL: doc.SourceURL,
				Text:      doc.Text,
				Sentiment: document.SentimentNeutral,
			}
		}
	}()

	source := doc.Extracted
	if source == "" {
		source = doc.Text
	}

	readability := FleschReadingEase(source)
	sentiment := Label(e.analyzer.Compound(doc.Text))
	hasCitations := HasCitations(source)

	enriched.Readability = readability
	enriched.Sentiment = sentiment
	enriched.HasCitations = hasCitations

	e.logger.Debug().
		Str("url", doc.SourceURL).
		Float64("readability", readability).
		Str("sentiment", string(sentiment)).
		Bool("has_citations", hasCitations).
		Msg("Enriched document")

	return enriched
}
