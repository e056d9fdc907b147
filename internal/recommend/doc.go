// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

// Package recommend implements the listing recommendation and ranking engine.
//
// # Architecture
//
// A request is served by one of three pipelines, selected by Request.Mode:
//
//   - Personalized: interaction history and preference profile, candidate
//     retrieval with a fallback chain, then weighted similarity scoring
//   - Trending: windowed engagement aggregation with a popularity fallback
//   - Beginner: cheap, popular and well-rated listings, no personalization
//
// Missing signals never fail a request. A personalized request without a
// user, for an unknown user, or for a cold user with no preferences is served
// by the trending pipeline, and the metadata names the fallback that fired.
//
// # Scoring
//
// The similarity score is a weighted mean of location, price, amenity, trust
// and popularity components on a 0-100 scale. Components that cannot be
// computed for a candidate (no anchor, no coordinates, no preferred
// amenities) are left out and the remaining weights are renormalized.
//
// # Collaborators
//
// The engine reads through ListingReader, EngagementReader, UserReader and an
// optional LocationResolver. It performs no writes and keeps no caches.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.Dependencies{
//	    Listings:   store,
//	    Engagement: store,
//	    Users:      store,
//	}, logger)
//
//	resp := engine.Recommend(ctx, recommend.Request{
//	    UserID: "u1",
//	    Mode:   recommend.ModePersonalized,
//	    Limit:  10,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Its configuration is immutable after
// construction.
package recommend
