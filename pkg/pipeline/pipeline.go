package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Caia-Tech/truthlens-ingest/internal/dedup"
	"github.com/Caia-Tech/truthlens-ingest/internal/enrich"
	"github.com/Caia-Tech/truthlens-ingest/internal/fetch"
	"github.com/Caia-Tech/truthlens-ingest/internal/metrics"
	"github.com/Caia-Tech/truthlens-ingest/internal/processing"
	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/Caia-Tech/truthlens-ingest/pkg/extractor"
	"github.com/Caia-Tech/truthlens-ingest/pkg/logging"
	"github.com/Caia-Tech/truthlens-ingest/pkg/ratelimit"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// State is a batch's position in the pipeline
type State string

const (
	StateFetching      State = "FETCHING"
	StateExtracting    State = "EXTRACTING"
	StateValidating    State = "VALIDATING"
	StateEnriching     State = "ENRICHING"
	StateDeduplicating State = "DEDUPLICATING"
	StateDone          State = "DONE"
)

// Failure records why a document left the batch
type Failure struct {
	URL    string `json:"url"`
	Stage  State  `json:"stage"`
	Reason string `json:"reason"`
}

// BatchReport summarizes one batch run alongside its records
type BatchReport struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	State     State     `json:"state"`

	// Documents entering and leaving each stage
	Input     int `json:"input"`
	Fetched   int `json:"fetched"`
	Extracted int `json:"extracted"`
	Validated int `json:"validated"`
	Enriched  int `json:"enriched"`
	Accepted  int `json:"accepted"`

	Failures   []Failure         `json:"failures"`
	Duplicates []dedup.Duplicate `json:"duplicates"`

	// Rate limiter grants per domain during this batch, retries included
	DomainRequests map[string]int64 `json:"domain_requests"`

	StageDurations map[State]time.Duration `json:"stage_durations"`
	Duration       time.Duration           `json:"duration"`
}

// BatchResult is what a batch run returns
type BatchResult struct {
	Records []document.EnrichedDocument `json:"records"`
	Report  *BatchReport                `json:"report"`
}

// Option customizes a Pipeline
type Option func(*options)

type options struct {
	detector   processing.LanguageDetector
	analyzer   enrich.SentimentAnalyzer
	registerer prometheus.Registerer
	httpClient *http.Client
}

// WithLanguageDetector shares an existing detector instead of building one
func WithLanguageDetector(d processing.LanguageDetector) Option {
	return func(o *options) {
		o.detector = d
	}
}

// WithSentimentAnalyzer shares an existing analyzer instead of building one
func WithSentimentAnalyzer(a enrich.SentimentAnalyzer) Option {
	return func(o *options) {
		o.analyzer = a
	}
}

// WithRegisterer registers pipeline metrics with reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithHTTPClient overrides the client used for direct (non-proxied) fetches
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// Pipeline runs batches through fetch, extraction, validation, enrichment
// and deduplication. Components are built once and shared by every batch.
type Pipeline struct {
	config     *PipelineConfig
	limiter    *ratelimit.DomainLimiter
	fetcher    *fetch.Fetcher
	extractor  *extractor.Engine
	normalizer *processing.Normalizer
	validator  *processing.Validator
	enricher   *enrich.Enricher
	dedup      *dedup.Deduplicator
	metrics    *metrics.Collector
}

// New validates config and builds every component. Configuration errors
// surface here, never during a batch.
func New(config *PipelineConfig, opts ...Option) (*Pipeline, error) {
	if config == nil {
		config = DefaultPipelineConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.detector == nil {
		o.detector = processing.NewWhatlangDetector()
	}
	if o.analyzer == nil {
		o.analyzer = enrich.NewVaderAnalyzer()
	}

	var collector *metrics.Collector
	if config.Metrics.Enabled && o.registerer != nil {
		c, err := metrics.NewCollector(o.registerer)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		collector = c
	}

	limiter, err := ratelimit.NewDomainLimiter(config.RateLimit.RequestsPerSecond)
	if err != nil {
		return nil, err
	}

	fetchOpts := []fetch.Option{fetch.WithMetrics(collector)}
	if o.httpClient != nil {
		fetchOpts = append(fetchOpts, fetch.WithHTTPClient(o.httpClient))
	}
	fetcher, err := fetch.New(config.Fetch, limiter, fetchOpts...)
	if err != nil {
		return nil, err
	}

	deduplicator, err := dedup.New(config.Dedup)
	if err != nil {
		return nil, err
	}

	normalizer := processing.NewNormalizer()

	logger := logging.GetLogger("pipeline")
	logger.Debug().
		Strs("normalization_rules", normalizer.Rules()).
		Float64("requests_per_second", config.RateLimit.RequestsPerSecond).
		Int("concurrency_limit", config.Fetch.ConcurrencyLimit).
		Msg("Pipeline components ready")

	return &Pipeline{
		config:     config,
		limiter:    limiter,
		fetcher:    fetcher,
		extractor:  extractor.NewEngine(config.Extraction),
		normalizer: normalizer,
		validator:  processing.NewValidator(normalizer, o.detector, config.Validation.RequiredLanguage),
		enricher:   enrich.New(o.analyzer),
		dedup:      deduplicator,
		metrics:    collector,
	}, nil
}

// ProcessURLs fetches and curates urls
func (p *Pipeline) ProcessURLs(ctx context.Context, urls []string) (*BatchResult, error) {
	targets := make([]document.FetchTarget, len(urls))
	for i, u := range urls {
		targets[i] = document.FetchTarget{URL: u}
	}
	return p.ProcessTargets(ctx, targets)
}

// ProcessTargets fetches and curates targets. Every fetch terminates before
// extraction starts; a document failing any stage is dropped and recorded
// in the report while the rest of the batch continues.
func (p *Pipeline) ProcessTargets(ctx context.Context, targets []document.FetchTarget) (*BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run := p.newRun(len(targets))
	run.enter(StateFetching)

	before := p.limiter.Stats()
	results := p.fetcher.FetchAll(ctx, targets)
	for domain, stats := range p.limiter.Stats() {
		if granted := stats.RequestCount - before[domain].RequestCount; granted > 0 {
			run.report.DomainRequests[domain] = granted
		}
	}

	raws := make([]document.RawDocument, 0, len(results))
	for _, result := range results {
		switch {
		case result.Err != nil:
			run.fail(result.URL, StateFetching, result.Err.Error())
		case !result.Successful():
			run.report.Fetched++
			run.fail(result.URL, StateExtracting, fmt.Sprintf("http status %d", result.StatusCode))
		default:
			run.report.Fetched++
			raws = append(raws, document.RawDocument{SourceURL: result.URL, HTML: string(result.Body)})
		}
	}

	return p.curate(ctx, run, raws), nil
}

// ProcessHTML curates raw HTML documents, skipping the fetch stage
func (p *Pipeline) ProcessHTML(ctx context.Context, docs []document.RawDocument) (*BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run := p.newRun(len(docs))
	return p.curate(ctx, run, docs), nil
}

// curate drives documents from EXTRACTING to DONE
func (p *Pipeline) curate(ctx context.Context, run *batchRun, raws []document.RawDocument) *BatchResult {
	run.enter(StateExtracting)
	cleaned := make([]document.CleanedDocument, 0, len(raws))
	for _, raw := range raws {
		var doc document.CleanedDocument
		err := isolate(func() error {
			text, err := p.extractor.Extract(ctx, []byte(raw.HTML), raw.SourceURL)
			if err != nil {
				return err
			}
			doc, err = p.normalizer.Clean(raw.SourceURL, text)
			return err
		})
		if err != nil {
			run.fail(raw.SourceURL, StateExtracting, err.Error())
			continue
		}
		cleaned = append(cleaned, doc)
	}
	run.report.Extracted = len(cleaned)

	run.enter(StateValidating)
	valid := make([]document.CleanedDocument, 0, len(cleaned))
	for _, doc := range cleaned {
		var outcome document.ValidationOutcome
		err := isolate(func() error {
			outcome = p.validator.Validate(doc.Text, p.config.Validation.MinWords)
			return nil
		})
		switch {
		case err != nil:
			run.fail(doc.SourceURL, StateValidating, err.Error())
		case !outcome.IsValid:
			run.fail(doc.SourceURL, StateValidating, outcome.Reason())
		default:
			valid = append(valid, doc)
		}
	}
	run.report.Validated = len(valid)

	run.enter(StateEnriching)
	enriched := make([]document.EnrichedDocument, 0, len(valid))
	for _, doc := range valid {
		var record document.EnrichedDocument
		err := isolate(func() error {
			record = p.enricher.Enrich(doc)
			return record.Validate()
		})
		if err != nil {
			run.fail(doc.SourceURL, StateEnriching, err.Error())
			continue
		}
		enriched = append(enriched, record)
	}
	run.report.Enriched = len(enriched)

	run.enter(StateDeduplicating)
	records, duplicates := p.dedup.Deduplicate(enriched)
	run.report.Duplicates = duplicates
	p.metrics.ObserveDuplicates(len(duplicates))

	run.enter(StateDone)
	run.report.Accepted = len(records)
	p.metrics.ObserveAccepted(len(records))

	run.logger.Info().
		Int("input", run.report.Input).
		Int("accepted", run.report.Accepted).
		Int("failures", len(run.report.Failures)).
		Int("duplicates", len(duplicates)).
		Dur("duration", run.report.Duration).
		Msg("Batch completed")

	return &BatchResult{Records: records, Report: run.report}
}

// isolate runs one document's stage and turns a panic into an error
func isolate(stage func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			logger := logging.GetLogger("pipeline")
			logger.Error().
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic in document stage")
		}
	}()
	return stage()
}

// batchRun tracks one batch as it moves through the states
type batchRun struct {
	pipeline   *Pipeline
	report     *BatchReport
	stageStart time.Time
	logger     zerolog.Logger
}

func (p *Pipeline) newRun(input int) *batchRun {
	runID := uuid.New().String()
	now := time.Now()
	return &batchRun{
		pipeline: p,
		report: &BatchReport{
			RunID:          runID,
			StartedAt:      now,
			Input:          input,
			Failures:       []Failure{},
			Duplicates:     []dedup.Duplicate{},
			DomainRequests: make(map[string]int64),
			StageDurations: make(map[State]time.Duration),
		},
		stageStart: now,
		logger:     logging.GetPipelineLogger(runID, "batch"),
	}
}

// enter closes the timing of the current state and moves to next
func (r *batchRun) enter(next State) {
	now := time.Now()
	if current := r.report.State; current != "" {
		elapsed := now.Sub(r.stageStart)
		r.report.StageDurations[current] = elapsed
		r.pipeline.metrics.ObserveStage(strings.ToLower(string(current)), elapsed)
	}

	r.report.State = next
	r.stageStart = now
	if next == StateDone {
		r.report.Duration = now.Sub(r.report.StartedAt)
	}

	r.logger.Debug().Str("state", string(next)).Msg("Batch state changed")
}

// fail records a dropped document
func (r *batchRun) fail(url string, stage State, reason string) {
	r.report.Failures = append(r.report.Failures, Failure{URL: url, Stage: stage, Reason: reason})
	r.pipeline.metrics.ObserveDropped(strings.ToLower(string(stage)))

	r.logger.Warn().
		Str("url", url).
		Str("stage", string(stage)).
		Str("reason", reason).
		Msg("Document dropped")
}
