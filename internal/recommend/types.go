// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"strings"
	"time"
)

// Mode selects the ranking pipeline for a request.
type Mode int

const (
	// ModeUnset is the zero value. The orchestrator treats it as ModeTrending.
	ModeUnset Mode = iota

	// ModePersonalized scores candidates against the user's preference profile.
	ModePersonalized

	// ModeTrending ranks listings by windowed engagement.
	ModeTrending

	// ModeBeginner returns cheap, popular, well-rated listings with no personalization.
	ModeBeginner

	// ModeUnknown marks a mode name that was sent but not recognized. It is
	// served as ModeTrending with the unknown_mode fallback.
	ModeUnknown
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModePersonalized:
		return "personalized"
	case ModeTrending:
		return "trending"
	case ModeBeginner:
		return "beginner"
	case ModeUnset:
		return "unset"
	default:
		return "unknown"
	}
}

func (m Mode) known() bool {
	return m >= ModeUnset && m <= ModeBeginner
}

// ParseMode converts a wire name to a Mode. The boolean is false for
// unrecognized names, in which case ModeUnknown is returned, or ModeUnset
// when s is blank.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "personalized":
		return ModePersonalized, true
	case "trending":
		return ModeTrending, true
	case "beginner":
		return ModeBeginner, true
	case "":
		return ModeUnset, false
	default:
		return ModeUnknown, false
	}
}

// Gender is the occupant gender a listing accepts, or the gender of a user.
type Gender string

const (
	GenderAny    Gender = "any"
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// CompatibleWith reports whether a listing accepting g can house someone
// whose preference is pref.
func (g Gender) CompatibleWith(pref Gender) bool {
	return g == GenderAny || g == pref
}

// Availability is the occupancy status of a listing.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityOccupied    Availability = "occupied"
	AvailabilityMaintenance Availability = "maintenance"
)

// GeoPoint is a WGS84 coordinate in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Listing is a rentable room as read from the listing repository.
type Listing struct {
	// ID uniquely identifies the listing.
	ID string `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Price is the monthly rent.
	Price float64 `json:"price"`

	// City is the address city.
	City string `json:"city"`

	// Location holds the coordinates when the listing has been geocoded.
	Location Optional[GeoPoint] `json:"-"`

	// Category is the room type (1RK, 1BHK, PG, Hostel, ...).
	Category string `json:"category"`

	// Amenities is the set of amenity tags (wifi, ac, laundry, ...).
	Amenities []string `json:"amenities"`

	// Gender is the accepted occupant gender.
	Gender Gender `json:"gender"`

	// Verified is true once the verification workflow approved the listing.
	Verified bool `json:"verified"`

	// Rating is the average review rating in [0, 5].
	Rating float64 `json:"rating"`

	// Lifetime popularity counters.
	Views         int `json:"views"`
	Favorites     int `json:"favorites"`
	Inquiries     int `json:"inquiries"`
	VisitRequests int `json:"visit_requests"`

	// Active is false for listings withdrawn by their owner.
	Active bool `json:"active"`

	// Availability is the occupancy status.
	Availability Availability `json:"availability"`

	// CreatedAt is used as the recency tie-break.
	CreatedAt time.Time `json:"created_at"`
}

// Eligible reports whether the listing can be shown at all.
func (l *Listing) Eligible(requireVerified bool) bool {
	if !l.Active || l.Availability != AvailabilityAvailable {
		return false
	}
	return !requireVerified || l.Verified
}

// HasAmenity reports whether the listing carries the amenity tag.
func (l *Listing) HasAmenity(a string) bool {
	for _, have := range l.Amenities {
		if have == a {
			return true
		}
	}
	return false
}

// VisitorEvent is one attributed or anonymous visit in an engagement record.
type VisitorEvent struct {
	// UserID is empty for anonymous visitors.
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// EngagementRecord is one day of aggregated engagement for one listing.
type EngagementRecord struct {
	ListingID     string         `json:"listing_id"`
	Date          time.Time      `json:"date"`
	Views         int            `json:"views"`
	UniqueViews   int            `json:"unique_views"`
	Inquiries     int            `json:"inquiries"`
	Favorites     int            `json:"favorites"`
	VisitRequests int            `json:"visit_requests"`
	Clicks        int            `json:"clicks"`
	Visitors      []VisitorEvent `json:"visitors,omitempty"`
}

// PriceRange is an inclusive rent interval. Min <= Max always holds for
// ranges produced by the preference builder.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Mid returns the midpoint of the range.
func (r PriceRange) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Contains reports whether price lies within the range.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// UserProfile is the subset of a user record the engine reads.
type UserProfile struct {
	ID string `json:"id"`

	// Affiliation is the free-text college or employer name used as a
	// location fallback.
	Affiliation string `json:"affiliation,omitempty"`

	// SavedListingIDs are the user's bookmarked listings in save order.
	SavedListingIDs []string `json:"saved_listing_ids,omitempty"`

	// Gender is the user's declared gender, empty when unknown.
	Gender Gender `json:"gender,omitempty"`

	// PriceRange is an explicit budget set by the user.
	PriceRange Optional[PriceRange] `json:"-"`
}

// Place is a resolved affiliation location.
type Place struct {
	Name  string   `json:"name"`
	City  string   `json:"city"`
	Point GeoPoint `json:"point"`
}

// AnchorSource records where an anchor location came from.
type AnchorSource string

const (
	AnchorFromHistory     AnchorSource = "history"
	AnchorFromAffiliation AnchorSource = "affiliation"
)

// Anchor is the location candidates are ranked around.
type Anchor struct {
	// City is the anchor city, when known.
	City string

	// Point is unset when the anchor city has no usable coordinates. Geo
	// filtering and the location score component are skipped in that case.
	Point Optional[GeoPoint]

	Source AnchorSource
}

// PreferenceProfile is the normalized description of what a user wants.
// It is built per request and never persisted.
type PreferenceProfile struct {
	// PriceRange is always set.
	PriceRange PriceRange

	Anchor   Optional[Anchor]
	Category Optional[string]

	// Amenities holds between zero and five amenity tags.
	Amenities []string

	Gender Optional[Gender]

	// Explicit is true when the user supplied a preference directly rather
	// than every field being a default.
	Explicit bool
}

// Wide reports whether the profile carries no personalization signal at all.
func (p *PreferenceProfile) Wide() bool {
	return !p.Explicit && !p.Anchor.IsSet() && !p.Category.IsSet() && len(p.Amenities) == 0
}

// CityCount is a ranked city entry in an interaction history.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// InteractionHistory is the behavioral summary of a user's saved and viewed
// listings. The zero value is a cold history.
type InteractionHistory struct {
	// ListingIDs is the union of saved and visited listing ids in first-seen order.
	ListingIDs []string

	MeanPrice     Optional[float64]
	TopCities     []CityCount
	TopCategories []string
	TopAmenities  []string

	// Centroids maps a city to the centroid of the interacted listings in it
	// that have coordinates.
	Centroids map[string]GeoPoint
}

// Cold reports whether the user has no interactions.
func (h *InteractionHistory) Cold() bool {
	return len(h.ListingIDs) == 0
}

// Filters are the optional request-level constraints.
type Filters struct {
	City     string
	MaxRent  Optional[float64]
	Category string

	// Amenities must all be present on a listing.
	Amenities []string

	// Near restricts beginner results to a radius around explicit coordinates.
	Near Optional[GeoPoint]
}

// Request is a single recommendation request.
type Request struct {
	// UserID is empty for anonymous callers.
	UserID string

	Mode Mode

	// Limit is clamped to the configured bounds.
	Limit int

	Filters Filters

	// RequestID is generated when empty.
	RequestID string
}

// Item is one ranked output row. Exactly one of Score and TrendingScore is
// set for personalized and trending results. Beginner results carry neither.
type Item struct {
	ListingID      string   `json:"listing_id"`
	Score          *int     `json:"score,omitempty"`
	TrendingScore  *float64 `json:"trending_score,omitempty"`
	Reasons        []string `json:"reasons"`
	DistanceMeters *int     `json:"distance_meters,omitempty"`

	createdAt time.Time
}

// Response is the result of a recommendation request.
type Response struct {
	Items    []Item           `json:"items"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	RequestID string `json:"request_id"`

	// RequestedMode is the mode asked for, Mode is the one actually served.
	RequestedMode string `json:"requested_mode"`
	Mode          string `json:"mode"`

	// Fallback names the fallback that fired, empty when none did.
	Fallback string `json:"fallback,omitempty"`

	TotalCandidates int `json:"total_candidates"`

	// Degraded is true when a downstream failure was converted to an empty result.
	Degraded bool `json:"degraded,omitempty"`

	LatencyMS int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}
