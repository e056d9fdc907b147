// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrank_recommend_requests_total",
			Help: "Total number of recommendation requests by served mode and outcome",
		},
		[]string{"mode", "outcome"}, // outcome: "ok", "fallback", "degraded"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roomrank_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"mode"},
	)

	RecommendFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrank_recommend_fallbacks_total",
			Help: "Total number of fallbacks taken, by stage",
		},
		[]string{"fallback"}, // "cold_start", "drop_city", "popularity", ...
	)

	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roomrank_recommend_candidates",
			Help:    "Number of candidates considered per request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
		},
	)

	RecommendDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roomrank_recommend_degraded_total",
			Help: "Total number of responses degraded to empty after a store failure",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrank_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roomrank_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roomrank_api_active_requests",
			Help: "Number of active API requests being processed",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "roomrank_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrank_circuit_breaker_requests_total",
			Help: "Total number of requests through a circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrank_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Location Cache Metrics
	LocationCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrank_location_cache_requests_total",
			Help: "Location lookups by cache tier and result",
		},
		[]string{"tier", "result"}, // tier: "memory", "badger"; result: "hit", "miss", "negative"
	)

	// Engagement Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrank_events_published_total",
			Help: "Total number of engagement events published",
		},
		[]string{"kind"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrank_events_consumed_total",
			Help: "Total number of engagement events consumed, by result",
		},
		[]string{"kind", "result"}, // result: "applied", "rejected", "failed", "dropped"
	)

	// Dataset Metrics
	DatasetReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrank_dataset_reloads_total",
			Help: "Total number of dataset reload attempts",
		},
		[]string{"result"}, // "success", "error", "throttled"
	)

	DatasetListings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roomrank_dataset_listings",
			Help: "Number of listings in the active dataset",
		},
	)
)

// RecordRecommendation records one served response. fallback is the
// response metadata fallback, a comma-joined list when several fired.
func RecordRecommendation(mode, fallback string, candidates int, degraded bool, duration time.Duration) {
	outcome := "ok"
	switch {
	case degraded:
		outcome = "degraded"
		RecommendDegradedTotal.Inc()
	case fallback != "":
		outcome = "fallback"
	}
	RecommendRequestsTotal.WithLabelValues(mode, outcome).Inc()
	RecommendDuration.WithLabelValues(mode).Observe(duration.Seconds())
	RecommendCandidates.Observe(float64(candidates))

	if fallback == "" {
		return
	}
	for _, stage := range strings.Split(fallback, ",") {
		if stage = strings.TrimSpace(stage); stage != "" {
			RecommendFallbacksTotal.WithLabelValues(stage).Inc()
		}
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request counter
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCircuitBreakerState sets the state gauge (0=closed, 1=half-open, 2=open).
func RecordCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerRequest counts a request outcome: success, failure or rejected.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordCircuitBreakerTransition counts a state change.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordLocationLookup counts a location cache lookup.
func RecordLocationLookup(tier, result string) {
	LocationCacheRequests.WithLabelValues(tier, result).Inc()
}

// RecordEventPublished counts a published engagement event.
func RecordEventPublished(kind string) {
	EventsPublished.WithLabelValues(kind).Inc()
}

// RecordEventConsumed counts a consumed engagement event by outcome:
// applied, rejected, failed (will retry) or dropped.
func RecordEventConsumed(kind, result string) {
	EventsConsumed.WithLabelValues(kind, result).Inc()
}

// RecordDatasetReload counts a reload attempt and, on success, updates the
// listing gauge.
func RecordDatasetReload(result string, listings int) {
	DatasetReloads.WithLabelValues(result).Inc()
	if result == "success" {
		DatasetListings.Set(float64(listings))
	}
}
