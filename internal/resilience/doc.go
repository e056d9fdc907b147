// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

// Package resilience guards the engine's store readers with circuit breakers
// (sony/gobreaker v2). Each reader gets its own breaker, so a failing
// location lookup never blocks listing reads.
//
// A breaker opens after FailureThreshold consecutive failures and rejects
// calls with ErrOpen until Timeout elapses. recommend.ErrNotFound and
// context.Canceled are not failures. State and transitions are exported as
// Prometheus metrics.
package resilience
