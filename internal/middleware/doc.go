// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

/*
Package middleware provides the HTTP middleware shared by every API route.

  - RequestID: accepts or generates an X-Request-ID and stores it in the
    logging context so every log line of the request carries request_id.
  - PrometheusMetrics: request counts, durations and in-flight requests.
    The endpoint label is the chi route pattern, not the raw path, so query
    strings and ids do not explode label cardinality.

Both are func(http.Handler) http.Handler and plug into chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
