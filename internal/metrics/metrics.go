// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics holds the Prometheus collectors of the fetcher and the
// analyzer. Both are one-shot processes, so collectors are exported by
// writing a node-exporter textfile at exit.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome and result label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRendered = "rendered"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendscope_fetch_total",
		Help: "Trending fetch runs by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	fetchVideos = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trendscope_fetch_videos",
		Help: "Number of videos written by the last fetch",
	})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trendscope_fetch_duration_seconds",
		Help:    "Duration of trending fetch runs",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendscope_cache_lookups_total",
		Help: "Response cache lookups by result",
	}, []string{"result"}) // result=hit|miss|error

	plotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendscope_plots_total",
		Help: "Analysis plot steps by plot and outcome",
	}, []string{"plot", "outcome"}) // outcome=rendered|skipped|failed

	loadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendscope_load_failures_total",
		Help: "Dataset load failures by kind",
	}, []string{"kind"}) // kind=not_found|parse
)

// RecordFetch records one completed fetch run.
func RecordFetch(success bool, videos int, d time.Duration) {
	if success {
		fetchTotal.WithLabelValues(OutcomeSuccess).Inc()
		fetchVideos.Set(float64(videos))
	} else {
		fetchTotal.WithLabelValues(OutcomeFailure).Inc()
	}
	fetchDuration.Observe(d.Seconds())
}

// RecordCacheLookup counts a cache lookup. result is CacheHit, CacheMiss or
// CacheError.
func RecordCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

// RecordPlot counts one analysis step outcome.
func RecordPlot(plot, outcome string) {
	plotsTotal.WithLabelValues(plot, outcome).Inc()
}

// RecordLoadFailure counts a dataset load failure.
func RecordLoadFailure(kind string) {
	loadFailures.WithLabelValues(kind).Inc()
}

// WriteTextfile writes every registered metric to path in the text
// exposition format. The parent directory is created when missing.
func WriteTextfile(path string) error {
	return WriteTextfileFrom(prometheus.DefaultGatherer, path)
}

// WriteTextfileFrom is WriteTextfile for an explicit gatherer.
func WriteTextfileFrom(g prometheus.Gatherer, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("metrics: create dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}
