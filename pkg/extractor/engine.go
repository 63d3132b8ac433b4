package extractor

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/Caia-Tech/truthlens-ingest/pkg/logging"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"
)

// placeholderURL is handed to readability when the caller has no source URL
var placeholderURL = &url.URL{Scheme: "http", Host: "localhost", Path: "/"}

// Config configures content extraction
type Config struct {
	// ExtraBoilerplate lists CSS selectors removed in addition to the built-in set
	ExtraBoilerplate []string `json:"extra_boilerplate,omitempty" yaml:"extra_boilerplate,omitempty"`

	// MinReadableChars is the shortest readability output accepted before
	// falling back to the plain tree walk. Zero falls back on empty output only.
	MinReadableChars int `json:"min_readable_chars" yaml:"min_readable_chars"`
}

// DefaultConfig returns default extraction configuration
func DefaultConfig() *Config {
	return &Config{}
}

// Engine converts raw HTML into plain article text
type Engine struct {
	config *Config
	logger zerolog.Logger
}

// NewEngine creates an extraction engine
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		config: config,
		logger: logging.GetLogger("extractor"),
	}
}

// Extract returns the main text of raw. Boilerplate is removed first, then the
// readability heuristic picks the article; when that yields nothing the visible
// text of the stripped page is used instead.
func (e *Engine) Extract(ctx context.Context, raw []byte, sourceURL string) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", fmt.Errorf("%w: empty document", document.ErrInvalidInput)
	}
	if contentType := http.DetectContentType(raw); !strings.HasPrefix(contentType, "text/") {
		return "", fmt.Errorf("%w: content is %s, not HTML", document.ErrInvalidInput, contentType)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse HTML: %v", document.ErrInvalidInput, err)
	}

	removed := stripBoilerplate(doc, e.config.ExtraBoilerplate)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	method := "readability"
	text, err := e.readable(doc, sourceURL)
	if err != nil || len(text) <= e.config.MinReadableChars {
		if err != nil {
			e.logger.Debug().Err(err).Str("url", sourceURL).Msg("Readability failed, using fallback")
		}
		method = "fallback"
		text = visibleText(doc)
	}

	originalSize := len(raw)
	cleanedSize := len(text)
	reduction := 100 * float64(originalSize-cleanedSize) / float64(originalSize)

	e.logger.Debug().
		Str("url", sourceURL).
		Str("method", method).
		Int("boilerplate_removed", removed).
		Int("original_size", originalSize).
		Int("cleaned_size", cleanedSize).
		Float64("reduction_pct", reduction).
		Msg("Extracted content")

	return text, nil
}

// readable runs the readability heuristic over the stripped document
func (e *Engine) readable(doc *goquery.Document, sourceURL string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("readability panicked: %v", r)
		}
	}()

	cleaned, err := doc.Html()
	if err != nil {
		return "", err
	}

	pageURL := placeholderURL
	if parsed, perr := url.Parse(sourceURL); perr == nil && parsed.Host != "" {
		pageURL = parsed
	}

	article, err := readability.FromReader(strings.NewReader(cleaned), pageURL)
	if err != nil {
		return "", err
	}

	return cleanupText(article.TextContent), nil
}
