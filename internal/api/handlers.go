// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package api

import (
	"context"
	"time"

	"github.com/tomtom215/roomrank/internal/events"
	"github.com/tomtom215/roomrank/internal/recommend"
)

// Recommender serves ranking requests. *recommend.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) *recommend.Response
}

// EventPublisher accepts engagement events. *events.Publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, e *events.Event) error
}

// Options carries the optional collaborators of a Handler.
type Options struct {
	Version string

	// Backend names the store for the health payload.
	Backend string

	// Ping checks store readiness.
	Ping func(ctx context.Context) error

	// ListingCount reports the number of stored listings.
	ListingCount func(ctx context.Context) (int, error)

	// Breakers reports circuit breaker states by name.
	Breakers func() map[string]string

	// Publisher is nil when the event pipeline is disabled.
	Publisher EventPublisher

	// Now defaults to time.Now.
	Now func() time.Time
}

// Handler holds the HTTP handlers.
type Handler struct {
	engine    Recommender
	opts      Options
	startTime time.Time
}

// NewHandler creates the handlers around engine.
func NewHandler(engine Recommender, opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Handler{
		engine:    engine,
		opts:      opts,
		startTime: opts.Now(),
	}
}
