// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

// @title Roomrank API
// @version 1.0
// @description Recommendation and ranking for rentable room listings
// @description
// @description ## Modes
// @description
// @description - **personalized**: ranked by location, price, amenity, trust and popularity fit for the caller
// @description - **trending**: ranked by recent views, inquiries, favorites and visit requests
// @description - **beginner**: affordable, verified, well-rated listings for first-time renters
// @description
// @description Anonymous callers and users without history are served trending results.
// @description
// @description ## Authentication
// @description
// @description With AUTH_MODE=jwt, send `Authorization: Bearer <token>`; the user id is the `sub` claim.
// @description With AUTH_MODE=none (development), the `X-User-ID` header identifies the caller.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {"code": "VALIDATION_ERROR", "message": "Human-readable message"},
// @description   "metadata": {"timestamp": "2026-06-01T12:00:00Z"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/roomrank/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description HS256 bearer token; the user id is the sub claim
//
// @tag.name Recommendations
// @tag.description Personalized, trending and beginner listing rankings
//
// @tag.name Engagement
// @tag.description Engagement tracking
//
// @tag.name Health
// @tag.description Liveness, readiness and component status
package main
