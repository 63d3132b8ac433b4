package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Caia-Tech/truthlens-ingest/internal/metrics"
	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/Caia-Tech/truthlens-ingest/pkg/logging"
	"github.com/Caia-Tech/truthlens-ingest/pkg/ratelimit"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

// Fetcher issues rate-limited, retried GET requests
type Fetcher struct {
	config     *Config
	limiter    *ratelimit.DomainLimiter
	identities *identityPool
	client     *http.Client
	proxies    sync.Map // proxy URL -> *http.Client
	metrics    *metrics.Collector
	logger     zerolog.Logger
}

// Option customizes a Fetcher
type Option func(*Fetcher)

// WithMetrics records fetch outcomes in c
func WithMetrics(c *metrics.Collector) Option {
	return func(f *Fetcher) {
		f.metrics = c
	}
}

// WithHTTPClient replaces the default client used for direct connections
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a fetcher sharing limiter with every other fetcher of the run
func New(config *Config, limiter *ratelimit.DomainLimiter, opts ...Option) (*Fetcher, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if limiter == nil {
		return nil, fmt.Errorf("%w: fetcher needs a rate limiter", document.ErrInvalidConfig)
	}
	for _, proxy := range config.Proxies {
		if _, err := parseProxy(proxy); err != nil {
			return nil, err
		}
	}

	f := &Fetcher{
		config:     config,
		limiter:    limiter,
		identities: newIdentityPool(config.UserAgents),
		client:     &http.Client{Transport: newTransport(nil)},
		logger:     logging.GetLogger("fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Fetch retrieves one target. Network failures are retried with backoff;
// HTTP error statuses are returned as results carrying that status.
func (f *Fetcher) Fetch(ctx context.Context, target document.FetchTarget) document.FetchResult {
	start := time.Now()

	policy := RetryPolicy{
		MaxAttempts: f.config.MaxRetries,
		BaseDelay:   f.config.BackoffMin,
		MaxDelay:    f.config.BackoffMax,
		OnRetry: func(err error, delay time.Duration) {
			f.metrics.ObserveRetry()
			f.logger.Debug().
				Err(err).
				Str("url", target.URL).
				Dur("delay", delay).
				Msg("Retrying after transient failure")
		},
	}

	proxy := f.pickProxy(target)
	fetch := Retry(policy, func(ctx context.Context) (*document.FetchResult, error) {
		return f.fetchOnce(ctx, target.URL, proxy)
	})
	result := fetch(ctx, target.URL)

	switch {
	case result.Err != nil:
		f.metrics.ObserveFetch(metrics.FetchFailed, result.Attempts)
		f.logger.Warn().
			Err(result.Err).
			Str("url", target.URL).
			Int("attempts", result.Attempts).
			Msg("Fetch failed")
	case !result.Successful():
		f.metrics.ObserveFetch(metrics.FetchHTTPError, result.Attempts)
		f.logger.Info().
			Str("url", target.URL).
			Int("status_code", result.StatusCode).
			Msg("Fetch returned error status")
	default:
		f.metrics.ObserveFetch(metrics.FetchSuccess, result.Attempts)
		f.logger.Debug().
			Str("url", target.URL).
			Int("status_code", result.StatusCode).
			Int("bytes", len(result.Body)).
			Int("attempts", result.Attempts).
			Dur("elapsed", time.Since(start)).
			Msg("Fetch completed")
	}

	return result
}

// fetchOnce performs a single attempt bound by the request timeout
func (f *Fetcher) fetchOnce(ctx context.Context, rawURL, proxy string) (*document.FetchResult, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	client, err := f.clientFor(proxy)
	if err != nil {
		return nil, err
	}

	if err := f.limiter.Acquire(ctx, document.DomainOf(rawURL)); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, f.config.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", document.ErrInvalidInput, err)
	}
	f.identities.apply(req)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &document.TransientNetworkError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	// The cap applies to bytes on the wire, before charset decoding
	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodyBytes+1))
	if err != nil {
		return nil, &document.TransientNetworkError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(raw)) > f.config.MaxBodyBytes {
		return nil, fmt.Errorf("content too large (exceeds %d bytes)", f.config.MaxBodyBytes)
	}

	reader, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	return &document.FetchResult{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// pickProxy prefers the target's own proxy, then a random configured one
func (f *Fetcher) pickProxy(target document.FetchTarget) string {
	if target.Proxy != "" {
		return target.Proxy
	}
	if len(f.config.Proxies) == 0 {
		return ""
	}
	return f.config.Proxies[rand.IntN(len(f.config.Proxies))]
}

// clientFor returns the shared client for a proxy, creating it once
func (f *Fetcher) clientFor(proxy string) (*http.Client, error) {
	if proxy == "" {
		return f.client, nil
	}
	if client, ok := f.proxies.Load(proxy); ok {
		return client.(*http.Client), nil
	}

	proxyURL, err := parseProxy(proxy)
	if err != nil {
		return nil, err
	}
	client, _ := f.proxies.LoadOrStore(proxy, &http.Client{Transport: newTransport(proxyURL)})
	return client.(*http.Client), nil
}

func newTransport(proxyURL *url.URL) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return transport
}

func parseProxy(proxy string) (*url.URL, error) {
	proxyURL, err := url.Parse(proxy)
	if err != nil || proxyURL.Scheme == "" || proxyURL.Host == "" {
		return nil, fmt.Errorf("%w: invalid proxy URL %q", document.ErrInvalidConfig, proxy)
	}
	return proxyURL, nil
}

// validateURL checks if a URL can be fetched at all
func validateURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: invalid URL: %v", document.ErrInvalidInput, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%w: unsupported URL scheme %q", document.ErrInvalidInput, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%w: URL must have a host", document.ErrInvalidInput)
	}
	return nil
}
