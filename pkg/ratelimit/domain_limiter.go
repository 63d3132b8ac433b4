package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/Caia-Tech/truthlens-ingest/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DomainLimiter enforces a minimum interval between requests to the same domain.
// It is shared by every fetch worker in a run.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*domainState
	rps      float64
	logger   zerolog.Logger
}

// domainState tracks the limiter and counters for a single domain
type domainState struct {
	limiter      *rate.Limiter
	requestCount int64
	lastGrant    time.Time
}

// DomainStats is a snapshot of one domain's activity
type DomainStats struct {
	RequestCount int64
	LastGrant    time.Time
}

// NewDomainLimiter creates a limiter granting at most requestsPerSecond per domain
func NewDomainLimiter(requestsPerSecond float64) (*DomainLimiter, error) {
	if requestsPerSecond <= 0 {
		return nil, fmt.Errorf("%w: requests per second must be positive, got %v", document.ErrInvalidConfig, requestsPerSecond)
	}

	return &DomainLimiter{
		limiters: make(map[string]*domainState),
		rps:      requestsPerSecond,
		logger:   logging.GetLogger("ratelimit"),
	}, nil
}

// Interval returns the minimum gap between two grants for one domain
func (l *DomainLimiter) Interval() time.Duration {
	return time.Duration(float64(time.Second) / l.rps)
}

// Acquire blocks until the domain may be requested again, then records the grant.
// The check and the grant are a single reservation inside rate.Limiter, so two
// callers can never both pass the interval check for the same slot.
func (l *DomainLimiter) Acquire(ctx context.Context, domain string) error {
	state := l.domainState(domain)

	start := time.Now()
	if err := state.limiter.Wait(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	state.requestCount++
	state.lastGrant = time.Now()
	l.mu.Unlock()

	if waited := time.Since(start); waited > time.Millisecond {
		l.logger.Debug().
			Str("domain", domain).
			Dur("waited", waited).
			Dur("interval", l.Interval()).
			Msg("Waited for rate limit")
	}

	return nil
}

// Stats returns a snapshot for every domain seen so far
func (l *DomainLimiter) Stats() map[string]DomainStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := make(map[string]DomainStats, len(l.limiters))
	for domain, state := range l.limiters {
		stats[domain] = DomainStats{
			RequestCount: state.requestCount,
			LastGrant:    state.lastGrant,
		}
	}
	return stats
}

func (l *DomainLimiter) domainState(domain string) *domainState {
	l.mu.Lock()
	defer l.mu.Unlock()

	if state, exists := l.limiters[domain]; exists {
		return state
	}

	// Burst of 1: the first request passes immediately, every later one
	// waits a full interval after the previous grant.
	state := &domainState{
		limiter: rate.NewLimiter(rate.Limit(l.rps), 1),
	}
	l.limiters[domain] = state

	l.logger.Debug().
		Str("domain", domain).
		Float64("requests_per_second", l.rps).
		Msg("Created new domain limiter")

	return state
}
