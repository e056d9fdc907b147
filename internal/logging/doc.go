// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

// Package logging provides centralized zerolog-based logging for Roomrank.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Dataset reload failed")
//
//	// With request context (request_id, event_id)
//	logging.Ctx(ctx).Info().Str("mode", "trending").Msg("Recommendations served")
//
// # Adapters
//
//   - SlogHandler bridges log/slog (used by sutureslog) to zerolog
//   - WatermillLogger implements watermill.LoggerAdapter for the event pipeline
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send(). Pass user-supplied
// values through SanitizeInput before logging them, and never log bearer
// tokens unmasked (SanitizeToken).
package logging
