package fetch

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/cenkalti/backoff/v4"
)

// AttemptFunc performs a single fetch attempt
type AttemptFunc func(ctx context.Context) (*document.FetchResult, error)

// RetryPolicy bounds how a failing attempt is repeated
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// OnRetry is called before each backoff sleep
	OnRetry func(err error, delay time.Duration)
}

// exponentialJitter waits min(max, base*2^n) plus up to 10% jitter before attempt n+1
type exponentialJitter struct {
	base    time.Duration
	max     time.Duration
	attempt int
	jitter  func() float64
}

func newExponentialJitter(base, maxDelay time.Duration) *exponentialJitter {
	return &exponentialJitter{base: base, max: maxDelay, jitter: rand.Float64}
}

// Delay returns the un-jittered wait after the 0-indexed attempt n
func (b *exponentialJitter) Delay(n int) time.Duration {
	delay := b.base
	for i := 0; i < n && delay < b.max; i++ {
		delay *= 2
	}
	if delay > b.max {
		delay = b.max
	}
	return delay
}

func (b *exponentialJitter) NextBackOff() time.Duration {
	delay := b.Delay(b.attempt)
	b.attempt++
	return delay + time.Duration(b.jitter()*0.1*float64(delay))
}

func (b *exponentialJitter) Reset() {
	b.attempt = 0
}

// Retry decorates attempt so that transient failures are retried under policy.
// Any other error ends the loop immediately. The returned result always carries
// the number of attempts made; on exhaustion it carries the last error.
func Retry(policy RetryPolicy, attempt AttemptFunc) func(ctx context.Context, url string) document.FetchResult {
	return func(ctx context.Context, url string) document.FetchResult {
		var (
			result   *document.FetchResult
			attempts int
		)

		operation := func() error {
			attempts++
			res, err := attempt(ctx)
			if err != nil {
				if document.IsTransient(err) {
					return err
				}
				return backoff.Permanent(err)
			}
			result = res
			return nil
		}

		var b backoff.BackOff = newExponentialJitter(policy.BaseDelay, policy.MaxDelay)
		b = backoff.WithMaxRetries(b, uint64(max(policy.MaxAttempts-1, 0)))
		b = backoff.WithContext(b, ctx)

		notify := func(err error, delay time.Duration) {
			if policy.OnRetry != nil {
				policy.OnRetry(err, delay)
			}
		}

		if err := backoff.RetryNotify(operation, b, notify); err != nil {
			return document.FetchResult{URL: url, Err: err, Attempts: attempts}
		}

		result.URL = url
		result.Attempts = attempts
		return *result
	}
}
