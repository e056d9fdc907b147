// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

/*
Package metrics provides Prometheus metrics for Roomrank.

Collectors are registered with the default registry through promauto and
exposed at /metrics by the API router (promhttp). Callers use the Record*
helpers rather than touching collectors directly.

# Available Metrics

Recommendations:
  - roomrank_recommend_requests_total{mode,outcome}: outcome is ok, fallback or degraded
  - roomrank_recommend_duration_seconds{mode}
  - roomrank_recommend_fallbacks_total{fallback}: one increment per fired stage
  - roomrank_recommend_candidates: candidates considered per request
  - roomrank_recommend_degraded_total

API:
  - roomrank_api_requests_total{method,endpoint,status_code}
  - roomrank_api_request_duration_seconds{method,endpoint}
  - roomrank_api_active_requests

Circuit breakers (one per store reader):
  - roomrank_circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - roomrank_circuit_breaker_requests_total{name,result}
  - roomrank_circuit_breaker_transitions_total{name,from,to}

Pipelines:
  - roomrank_location_cache_requests_total{tier,result}
  - roomrank_events_published_total{kind}, roomrank_events_consumed_total{kind,result}
  - roomrank_dataset_reloads_total{result}, roomrank_dataset_listings
*/
package metrics
