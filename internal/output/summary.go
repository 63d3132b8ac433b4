package output

import (
	"fmt"
	"io"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
)

// Summary describes a set of curated records
type Summary struct {
	Records         int                        `json:"records"`
	AverageLength   float64                    `json:"average_length"`
	MeanReadability float64                    `json:"mean_readability"`
	CitationRate    float64                    `json:"citation_rate"`
	Sentiment       map[document.Sentiment]int `json:"sentiment"`
}

// Summarize computes dataset statistics over records
func Summarize(records []document.EnrichedDocument) Summary {
	summary := Summary{
		Records: len(records),
		Sentiment: map[document.Sentiment]int{
			document.SentimentPositive: 0,
			document.SentimentNeutral:  0,
			document.SentimentNegative: 0,
		},
	}
	if len(records) == 0 {
		return summary
	}

	var totalLength, citations int
	var totalReadability float64
	for _, record := range records {
		totalLength += len(record.Text)
		totalReadability += record.Readability
		if record.HasCitations {
			citations++
		}
		summary.Sentiment[record.Sentiment]++
	}

	n := float64(len(records))
	summary.AverageLength = float64(totalLength) / n
	summary.MeanReadability = totalReadability / n
	summary.CitationRate = float64(citations) / n

	return summary
}

// WriteText renders the summary as a short human-readable report
func (s Summary) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Records: %d\nAverage length: %.1f chars\nMean readability: %.1f\nCitation rate: %.1f%%\nSentiment: positive=%d neutral=%d negative=%d\n",
		s.Records,
		s.AverageLength,
		s.MeanReadability,
		s.CitationRate*100,
		s.Sentiment[document.SentimentPositive],
		s.Sentiment[document.SentimentNeutral],
		s.Sentiment[document.SentimentNegative],
	)
	return err
}
