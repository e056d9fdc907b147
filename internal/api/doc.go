// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

/*
Package api provides the HTTP interface of the ranking service.

Routes (chi router):

	GET  /api/v1/recommendations   ranked listings for the caller
	GET  /api/v1/trending          recommendations with mode=trending
	POST /api/v1/track             record a view, inquiry, favorite or visit request
	GET  /api/v1/health            component status
	GET  /api/v1/health/live       liveness probe
	GET  /api/v1/health/ready      readiness probe (store ping)
	GET  /metrics                  Prometheus metrics
	GET  /swagger/*                API documentation

Query parameters of the recommendation endpoints are lenient: an
unparseable limit becomes 10, unparseable max_rent, lat or lon values are
ignored, and an unknown mode is served as trending. The caller's identity
comes from the auth middleware.

Every JSON response uses the models.APIResponse envelope. Error responses
carry a stable code and never echo internal error text.
*/
package api
