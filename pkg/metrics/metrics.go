// Package metrics provides Prometheus metrics for the Reed service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal tracks reference searches by outcome
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "matching",
			Name:      "searches_total",
			Help:      "Total number of reference searches by outcome",
		},
		[]string{"status"},
	)

	// SearchDuration tracks search duration in seconds
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reed",
			Subsystem: "matching",
			Name:      "search_duration_seconds",
			Help:      "Duration of reference searches in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// CasesReturned tracks how many cases each search returned
	CasesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reed",
			Subsystem: "matching",
			Name:      "cases_returned",
			Help:      "Number of cases returned per search",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		},
	)

	// CacheHitsTotal tracks memoization cache hits
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of match result cache hits",
		},
	)

	// CacheMissesTotal tracks memoization cache misses
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of match result cache misses",
		},
	)

	// CorpusSize tracks the number of loaded reference cases
	CorpusSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reed",
			Subsystem: "knowledge",
			Name:      "corpus_size",
			Help:      "Number of reference cases currently loaded",
		},
	)

	// EventsPublishedTotal tracks match events published to Kafka
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of match events published by status",
		},
		[]string{"status"},
	)
)
