package document

import (
	"fmt"
	"net/url"
	"strings"
)

// FetchTarget is a single URL handed to the fetcher by the caller
type FetchTarget struct {
	URL   string `json:"url"`
	Proxy string `json:"proxy,omitempty"` // Optional proxy URL for this target
}

// Domain returns the host part of the target URL used for rate limiting
func (t FetchTarget) Domain() string {
	return DomainOf(t.URL)
}

// FetchResult is the terminal outcome of fetching one target.
// Exactly one of Body or Err is set.
type FetchResult struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	Body       []byte `json:"-"`
	Err        error  `json:"-"`
	Attempts   int    `json:"attempts"`
}

// OK reports whether the fetch produced a body
func (r FetchResult) OK() bool {
	return r.Err == nil && r.Body != nil
}

// Successful reports whether the server answered with a 2xx status
func (r FetchResult) Successful() bool {
	return r.OK() && r.StatusCode >= 200 && r.StatusCode < 300
}

// RawDocument is an HTML input that skips the fetch stage
type RawDocument struct {
	SourceURL string `json:"source_url"`
	HTML      string `json:"html"`
}

// CleanedDocument holds extracted and normalized text.
// Text never contains markup or a whitespace run longer than one space.
type CleanedDocument struct {
	SourceURL string `json:"source_url"`
	Text      string `json:"text"`

	// Extracted is the plain text before normalization. Punctuation-sensitive
	// enrichment (sentence counting, citation patterns) reads it.
	Extracted string `json:"-"`
}

// ValidationOutcome is the structured result of validating a document
type ValidationOutcome struct {
	IsValid bool     `json:"is_valid"`
	Reasons []string `json:"reasons"`
}

// Reason joins all failure reasons into a single string
func (v ValidationOutcome) Reason() string {
	if v.IsValid {
		return "valid"
	}
	return strings.Join(v.Reasons, "; ")
}

// Sentiment is the coarse polarity label attached to a document
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Valid reports whether s is one of the three known labels
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// EnrichedDocument is the curated record returned to callers
type EnrichedDocument struct {
	SourceURL    string    `json:"source_url"`
	Text         string    `json:"text"`
	Readability  float64   `json:"readability"`
	Sentiment    Sentiment `json:"sentiment"`
	HasCitations bool      `json:"has_citations"`
}

// Validate checks that the record satisfies the output schema
func (d EnrichedDocument) Validate() error {
	if d.Text == "" {
		return fmt.Errorf("record text cannot be empty")
	}
	if !d.Sentiment.Valid() {
		return fmt.Errorf("unknown sentiment label %q", d.Sentiment)
	}
	return nil
}

// DomainOf extracts the lowercased host from a URL, or "" if it has none
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
