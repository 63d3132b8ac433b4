package fetch

import (
	"context"
	"time"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"golang.org/x/sync/errgroup"
)

// FetchAll fetches every target with at most ConcurrencyLimit requests in flight.
// It returns once every fetch has terminated; results[i] belongs to targets[i].
func (f *Fetcher) FetchAll(ctx context.Context, targets []document.FetchTarget) []document.FetchResult {
	start := time.Now()
	results := make([]document.FetchResult, len(targets))

	f.logger.Info().
		Int("targets", len(targets)).
		Int("concurrency", f.config.ConcurrencyLimit).
		Msg("Starting batch fetch")

	// Workers never return an error: a failed URL is a result, not a reason
	// to cancel its siblings.
	var g errgroup.Group
	g.SetLimit(f.config.ConcurrencyLimit)

	for i, target := range targets {
		g.Go(func() error {
			results[i] = f.Fetch(ctx, target)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}

	f.logger.Info().
		Int("targets", len(targets)).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("Batch fetch completed")

	return results
}
