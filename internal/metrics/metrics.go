// Package metrics provides Prometheus metrics for the response pipeline:
// request outcomes, latencies, retries, cache effectiveness, and stream
// activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "respond"

var (
	// RequestsTotal counts pipeline requests by mode and outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total pipeline requests",
		},
		[]string{"mode", "outcome"}, // mode: generate|stream; outcome: ok|fallback|cached|canceled
	)

	// RequestDuration tracks end-to-end latency for non-streaming requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "End-to-end request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// RetriesTotal counts transport retry attempts.
	RetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Total transport retry attempts",
		},
	)

	// CacheHitsTotal counts cache hits.
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total response cache hits",
		},
	)

	// CacheMissesTotal counts cache misses.
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total response cache misses",
		},
	)

	// FallbacksTotal counts fallback responses by kind.
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Total fallback responses served",
		},
		[]string{"kind"},
	)

	// StreamChunksTotal counts content fragments delivered to stream
	// consumers.
	StreamChunksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_chunks_total",
			Help:      "Total stream content fragments delivered",
		},
	)

	// MalformedFramesTotal counts stream frames that failed to parse and
	// were skipped.
	MalformedFramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_frames_total",
			Help:      "Total malformed stream frames skipped",
		},
	)
)
