// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package resilience

import (
	"context"
	"time"

	"github.com/tomtom215/roomrank/internal/recommend"
)

// ListingReader guards a recommend.ListingReader with a circuit breaker.
type ListingReader struct {
	next recommend.ListingReader
	*breaker
}

// NewListingReader wraps next.
func NewListingReader(next recommend.ListingReader, s Settings) *ListingReader {
	return &ListingReader{next: next, breaker: newBreaker("listings", s)}
}

func (r *ListingReader) FindListings(ctx context.Context, q recommend.ListingQuery) ([]recommend.Listing, error) {
	return castResult[[]recommend.Listing](r.execute(func() (interface{}, error) {
		return r.next.FindListings(ctx, q)
	}))
}

func (r *ListingReader) GetListings(ctx context.Context, ids []string) ([]recommend.Listing, error) {
	return castResult[[]recommend.Listing](r.execute(func() (interface{}, error) {
		return r.next.GetListings(ctx, ids)
	}))
}

// EngagementReader guards a recommend.EngagementReader with a circuit breaker.
type EngagementReader struct {
	next recommend.EngagementReader
	*breaker
}

// NewEngagementReader wraps next.
func NewEngagementReader(next recommend.EngagementReader, s Settings) *EngagementReader {
	return &EngagementReader{next: next, breaker: newBreaker("engagement", s)}
}

func (r *EngagementReader) EngagementSince(ctx context.Context, since time.Time, listingIDs []string) ([]recommend.EngagementRecord, error) {
	return castResult[[]recommend.EngagementRecord](r.execute(func() (interface{}, error) {
		return r.next.EngagementSince(ctx, since, listingIDs)
	}))
}

func (r *EngagementReader) ListingsVisitedBy(ctx context.Context, userID string) ([]string, error) {
	return castResult[[]string](r.execute(func() (interface{}, error) {
		return r.next.ListingsVisitedBy(ctx, userID)
	}))
}

// UserReader guards a recommend.UserReader with a circuit breaker. Unknown
// users do not count as failures.
type UserReader struct {
	next recommend.UserReader
	*breaker
}

// NewUserReader wraps next.
func NewUserReader(next recommend.UserReader, s Settings) *UserReader {
	return &UserReader{next: next, breaker: newBreaker("users", s)}
}

func (r *UserReader) GetUser(ctx context.Context, id string) (*recommend.UserProfile, error) {
	return castResult[*recommend.UserProfile](r.execute(func() (interface{}, error) {
		return r.next.GetUser(ctx, id)
	}))
}

// LocationResolver guards a recommend.LocationResolver with a circuit breaker.
type LocationResolver struct {
	next recommend.LocationResolver
	*breaker
}

// NewLocationResolver wraps next.
func NewLocationResolver(next recommend.LocationResolver, s Settings) *LocationResolver {
	return &LocationResolver{next: next, breaker: newBreaker("locations", s)}
}

type resolved struct {
	place recommend.Place
	found bool
}

func (r *LocationResolver) Resolve(ctx context.Context, name string) (recommend.Place, bool, error) {
	res, err := castResult[resolved](r.execute(func() (interface{}, error) {
		p, ok, err := r.next.Resolve(ctx, name)
		return resolved{place: p, found: ok}, err
	}))
	return res.place, res.found, err
}

// Wrap guards every reader in deps. The clock is passed through unchanged and
// a nil Locations stays nil.
func Wrap(deps recommend.Dependencies, s Settings) recommend.Dependencies {
	out := deps
	if deps.Listings != nil {
		out.Listings = NewListingReader(deps.Listings, s)
	}
	if deps.Engagement != nil {
		out.Engagement = NewEngagementReader(deps.Engagement, s)
	}
	if deps.Users != nil {
		out.Users = NewUserReader(deps.Users, s)
	}
	if deps.Locations != nil {
		out.Locations = NewLocationResolver(deps.Locations, s)
	}
	return out
}

// States reports the breaker state of every guarded reader in deps, keyed by
// breaker name. Unguarded readers are omitted.
func States(deps recommend.Dependencies) map[string]string {
	out := make(map[string]string, 4)
	for _, r := range []any{deps.Listings, deps.Engagement, deps.Users, deps.Locations} {
		if g, ok := r.(interface{ breakerState() (string, string) }); ok {
			name, state := g.breakerState()
			out[name] = state
		}
	}
	return out
}

var (
	_ recommend.ListingReader    = (*ListingReader)(nil)
	_ recommend.EngagementReader = (*EngagementReader)(nil)
	_ recommend.UserReader       = (*UserReader)(nil)
	_ recommend.LocationResolver = (*LocationResolver)(nil)
)
