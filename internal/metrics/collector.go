package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "truthlens"

// Fetch outcomes used as the "outcome" label
const (
	FetchSuccess   = "success"
	FetchHTTPError = "http_error"
	FetchFailed    = "failed"
)

// Collector records pipeline activity as Prometheus metrics.
// A nil *Collector is valid and records nothing.
type Collector struct {
	fetches       *prometheus.CounterVec
	fetchAttempts prometheus.Histogram
	retries       prometheus.Counter
	dropped       *prometheus.CounterVec
	accepted      prometheus.Counter
	duplicates    prometheus.Counter
	stageDuration *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them with reg
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "results_total",
			Help:      "Terminal fetch outcomes by kind.",
		}, []string{"outcome"}),
		fetchAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "attempts",
			Help:      "Attempts spent per fetched URL.",
			Buckets:   []float64{1, 2, 3, 5, 8},
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "retries_total",
			Help:      "Retries scheduled after transient failures.",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "documents_dropped_total",
			Help:      "Documents dropped, by the stage that rejected them.",
		}, []string{"stage"}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "documents_accepted_total",
			Help:      "Documents emitted as curated records.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dedup",
			Name:      "duplicates_total",
			Help:      "Documents rejected as near-duplicates.",
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent per batch stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
	}

	collectors := []prometheus.Collector{
		c.fetches, c.fetchAttempts, c.retries, c.dropped, c.accepted, c.duplicates, c.stageDuration,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ObserveFetch records the terminal outcome of one URL
func (c *Collector) ObserveFetch(outcome string, attempts int) {
	if c == nil {
		return
	}
	c.fetches.WithLabelValues(outcome).Inc()
	c.fetchAttempts.Observe(float64(attempts))
}

// ObserveRetry records one scheduled retry
func (c *Collector) ObserveRetry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

// ObserveDropped records a document dropped at stage
func (c *Collector) ObserveDropped(stage string) {
	if c == nil {
		return
	}
	c.dropped.WithLabelValues(stage).Inc()
}

// ObserveAccepted records n curated records
func (c *Collector) ObserveAccepted(n int) {
	if c == nil {
		return
	}
	c.accepted.Add(float64(n))
}

// ObserveDuplicates records n near-duplicates
func (c *Collector) ObserveDuplicates(n int) {
	if c == nil {
		return
	}
	c.duplicates.Add(float64(n))
}

// ObserveStage records how long a batch stage took
func (c *Collector) ObserveStage(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
