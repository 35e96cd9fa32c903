// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

// Package metrics exposes Prometheus instrumentation for the import
// engine, the metadata providers, and the HTTP boundary.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Import engine metrics
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamehoard_imports_total",
			Help: "Total number of import batches by final status",
		},
		[]string{"status"}, // "completed", "failed"
	)

	ImportEntriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamehoard_import_entries_total",
			Help: "Total number of game entries received across all imports",
		},
	)

	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gamehoard_import_duration_seconds",
			Help:    "Duration of import batches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PendingMappings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamehoard_pending_mappings",
			Help: "Current number of mappings awaiting manual resolution",
		},
	)

	// Metadata provider metrics
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamehoard_provider_requests_total",
			Help: "Total number of metadata provider requests",
		},
		[]string{"provider", "operation", "status"}, // operation: "search", "fetch"
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamehoard_provider_request_duration_seconds",
			Help:    "Duration of metadata provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	ProviderBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gamehoard_provider_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)

	MetadataCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamehoard_metadata_cache_hits_total",
			Help: "Total number of metadata search cache hits",
		},
	)

	MetadataCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamehoard_metadata_cache_misses_total",
			Help: "Total number of metadata search cache misses",
		},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamehoard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamehoard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, path string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordProviderRequest records one metadata provider call.
func RecordProviderRequest(provider, operation string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ProviderRequests.WithLabelValues(provider, operation, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider, operation).Observe(elapsed.Seconds())
}
