// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors.
var (
	// ErrNotFound is returned by UserReader when the user does not exist.
	ErrNotFound = errors.New("recommend: not found")

	// ErrNoReaders is returned by NewEngine when a required reader is nil.
	ErrNoReaders = errors.New("recommend: listing, engagement and user readers are required")
)

// ListingReader is the read side of the listing repository.
type ListingReader interface {
	// FindListings returns listings matching q, ordered by q.SortBy and
	// truncated to q.Limit when it is positive.
	FindListings(ctx context.Context, q ListingQuery) ([]Listing, error)

	// GetListings returns the listings with the given ids. Unknown ids are
	// skipped. The result order is unspecified.
	GetListings(ctx context.Context, ids []string) ([]Listing, error)
}

// EngagementReader is the read side of the engagement metrics store.
type EngagementReader interface {
	// EngagementSince returns the daily records dated on or after since.
	// A nil listingIDs slice means every listing.
	EngagementSince(ctx context.Context, since time.Time, listingIDs []string) ([]EngagementRecord, error)

	// ListingsVisitedBy returns the ids of listings with a visitor event
	// attributed to userID, in first-visit order.
	ListingsVisitedBy(ctx context.Context, userID string) ([]string, error)
}

// UserReader is the read side of the user profile store.
type UserReader interface {
	// GetUser returns ErrNotFound (possibly wrapped) for unknown users.
	GetUser(ctx context.Context, id string) (*UserProfile, error)
}

// LocationResolver resolves an affiliation name to a place.
type LocationResolver interface {
	// Resolve returns false when the name is unknown.
	Resolve(ctx context.Context, name string) (Place, bool, error)
}

// SortBy selects the ordering of FindListings results.
type SortBy int

const (
	// SortNone leaves ordering to the store.
	SortNone SortBy = iota

	// SortProximity orders located listings by distance from Near, then
	// listings without coordinates.
	SortProximity

	// SortPopularity orders by views desc, rating desc, then newest first.
	SortPopularity

	// SortNewest orders by creation time desc.
	SortNewest

	// SortMostViewed orders by views desc, then newest first.
	SortMostViewed
)

// ListingQuery is a storage-independent listing filter. Zero-valued fields
// do not constrain the result.
type ListingQuery struct {
	// RequireVerified additionally requires Verified on top of eligibility.
	RequireVerified bool

	// MinPrice and MaxPrice bound the rent, inclusive.
	MinPrice Optional[float64]
	MaxPrice Optional[float64]

	// Near and RadiusKm restrict located listings to a radius. Listings
	// without coordinates pass unless StrictGeo is set.
	Near      Optional[GeoPoint]
	RadiusKm  float64
	StrictGeo bool

	City     string
	Category string
	Gender   Optional[Gender]

	// AnyAmenities requires at least one of the tags.
	AnyAmenities []string

	// AllAmenities requires every tag.
	AllAmenities []string

	SortBy SortBy
	Limit  int
}

// Matches reports whether l satisfies every filter of q. Stores may push
// filters down and use Matches for the remainder.
//
//nolint:gocyclo // one branch per filter
func (q *ListingQuery) Matches(l *Listing) bool {
	if !l.Eligible(q.RequireVerified) {
		return false
	}
	if lo, ok := q.MinPrice.Get(); ok && l.Price < lo {
		return false
	}
	if hi, ok := q.MaxPrice.Get(); ok && l.Price > hi {
		return false
	}
	if q.City != "" && !equalFold(l.City, q.City) {
		return false
	}
	if q.Category != "" && !equalFold(l.Category, q.Category) {
		return false
	}
	if g, ok := q.Gender.Get(); ok && !l.Gender.CompatibleWith(g) {
		return false
	}
	if len(q.AnyAmenities) > 0 {
		hit := false
		for _, a := range q.AnyAmenities {
			if l.HasAmenity(a) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for _, a := range q.AllAmenities {
		if !l.HasAmenity(a) {
			return false
		}
	}
	if near, ok := q.Near.Get(); ok && q.RadiusKm > 0 {
		p, located := l.Location.Get()
		if !located {
			return !q.StrictGeo
		}
		if DistanceKm(near, p) > q.RadiusKm {
			return false
		}
	}
	return true
}

// EngagementKind is the type of a tracked interaction.
type EngagementKind string

const (
	EngagementView         EngagementKind = "view"
	EngagementInquiry      EngagementKind = "inquiry"
	EngagementFavorite     EngagementKind = "favorite"
	EngagementVisitRequest EngagementKind = "visit_request"
)

// Valid reports whether k is a known kind.
func (k EngagementKind) Valid() bool {
	switch k {
	case EngagementView, EngagementInquiry, EngagementFavorite, EngagementVisitRequest:
		return true
	default:
		return false
	}
}

// EngagementEvent is one tracked interaction with a listing. UserID is
// empty for anonymous visitors.
type EngagementEvent struct {
	ListingID string
	UserID    string
	Kind      EngagementKind
	Source    string
	Timestamp time.Time
}

// EngagementWriter is the write side of the engagement store. It is used by
// the event consumer, never by the engine.
//
// A view increments the day's views, records a visitor event when the
// viewer is known and counts a unique view when they are not. Every kind
// also increments the matching lifetime counter on the listing. Unknown
// listings return ErrNotFound.
type EngagementWriter interface {
	ApplyEvent(ctx context.Context, e EngagementEvent) error
}
