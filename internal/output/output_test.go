package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []document.EnrichedDocument {
	return []document.EnrichedDocument{
		{SourceURL: "https://a.example", Text: "first record text", Readability: 60, Sentiment: document.SentimentPositive, HasCitations: true},
		{SourceURL: "https://b.example", Text: "second <b>record</b>", Readability: 40, Sentiment: document.SentimentNegative},
		{SourceURL: "https://c.example", Text: "third", Readability: 20, Sentiment: document.SentimentNeutral},
		{SourceURL: "https://d.example", Text: "fourth record", Readability: 80, Sentiment: document.SentimentPositive, HasCitations: true},
	}
}

func TestJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	writer := NewJSONLWriter(&buf)

	records := sampleRecords()
	require.NoError(t, writer.WriteAll(records))
	require.NoError(t, writer.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(records))
	assert.Equal(t, 4, writer.Written())
	assert.JSONEq(t,
		`{"source_url":"https://a.example","text":"first record text","readability":60,"sentiment":"positive","has_citations":true}`,
		lines[0])
	assert.Contains(t, lines[1], "<b>record</b>")

	decoded, err := ReadJSONL(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestJSONLWriter_RejectsInvalidRecord(t *testing.T) {
	var buf bytes.Buffer
	writer := NewJSONLWriter(&buf)

	err := writer.Write(document.EnrichedDocument{SourceURL: "https://x.example", Text: "", Sentiment: document.SentimentNeutral})
	assert.Error(t, err)

	err = writer.Write(document.EnrichedDocument{SourceURL: "https://x.example", Text: "ok", Sentiment: "ecstatic"})
	assert.Error(t, err)

	require.NoError(t, writer.Flush())
	assert.Zero(t, buf.Len())
	assert.Zero(t, writer.Written())
}

func TestReadJSONL_Malformed(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader("{\"text\":\"ok\",\"sentiment\":\"neutral\"}\n{broken"))
	assert.ErrorContains(t, err, "record 2")
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleRecords())

	assert.Equal(t, 4, summary.Records)
	assert.InDelta(t, float64(17+20+5+13)/4, summary.AverageLength, 1e-9)
	assert.InDelta(t, 50.0, summary.MeanReadability, 1e-9)
	assert.InDelta(t, 0.5, summary.CitationRate, 1e-9)
	assert.Equal(t, 2, summary.Sentiment[document.SentimentPositive])
	assert.Equal(t, 1, summary.Sentiment[document.SentimentNeutral])
	assert.Equal(t, 1, summary.Sentiment[document.SentimentNegative])

	var buf bytes.Buffer
	require.NoError(t, summary.WriteText(&buf))
	assert.Contains(t, buf.String(), "Records: 4")
	assert.Contains(t, buf.String(), "Citation rate: 50.0%")
	assert.Contains(t, buf.String(), "positive=2 neutral=1 negative=1")
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.Zero(t, summary.Records)
	assert.Zero(t, summary.AverageLength)
	assert.Len(t, summary.Sentiment, 3)
}
