// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

// Package auth identifies the caller of an API request.
//
// Two modes are supported, selected by security.auth_mode:
//
//   - jwt: an "Authorization: Bearer <token>" header carrying an HS256 token.
//     The user id is the token's sub claim. When security.jwt_issuer is set
//     the iss claim must match.
//   - none: the X-User-ID header is trusted as-is. Intended for local
//     development; configuration validation rejects it in production.
//
// Requests without credentials are anonymous, not rejected: the engine
// serves anonymous callers trending results. Presenting an invalid token
// is rejected with 401.
//
// Handlers read the identity with UserIDFromContext.
package auth
