// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

// Package dataset defines the JSON snapshot format used to seed the stores.
//
// A snapshot holds listings, daily engagement records, users and affiliation
// places. It is loaded by the in-memory store at startup and on reload, and
// can be imported into the SQL store.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/roomrank/internal/recommend"
)

// ErrInvalid is returned when a snapshot fails validation.
var ErrInvalid = errors.New("dataset: invalid snapshot")

// Dataset is a complete data snapshot.
type Dataset struct {
	Listings   []ListingRecord              `json:"listings"`
	Engagement []recommend.EngagementRecord `json:"engagement"`
	Users      []UserRecord                 `json:"users"`
	Places     []PlaceRecord                `json:"places"`
}

// ListingRecord is the wire form of a listing. Coordinates are optional.
type ListingRecord struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Price         float64                `json:"price"`
	City          string                 `json:"city"`
	Lat           *float64               `json:"lat,omitempty"`
	Lon           *float64               `json:"lon,omitempty"`
	Category      string                 `json:"category"`
	Amenities     []string               `json:"amenities,omitempty"`
	Gender        recommend.Gender       `json:"gender,omitempty"`
	Verified      bool                   `json:"verified"`
	Rating        float64                `json:"rating"`
	Views         int                    `json:"views"`
	Favorites     int                    `json:"favorites"`
	Inquiries     int                    `json:"inquiries"`
	VisitRequests int                    `json:"visit_requests"`
	Active        bool                   `json:"active"`
	Availability  recommend.Availability `json:"availability,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// UserRecord is the wire form of a user profile.
type UserRecord struct {
	ID              string           `json:"id"`
	Affiliation     string           `json:"affiliation,omitempty"`
	SavedListingIDs []string         `json:"saved_listing_ids,omitempty"`
	Gender          recommend.Gender `json:"gender,omitempty"`
	PriceMin        *float64         `json:"price_min,omitempty"`
	PriceMax        *float64         `json:"price_max,omitempty"`
}

// PlaceRecord is an affiliation (college, employer) with optional aliases.
type PlaceRecord struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	City    string   `json:"city"`
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
}

// Load reads and validates a snapshot file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode reads and validates a snapshot.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalid, err) //nolint:errorlint // ErrInvalid is the sentinel callers match
	}
	ds.normalize()
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Encode writes the snapshot as indented JSON.
func (d *Dataset) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// normalize fills defaults that the wire format allows to be omitted.
func (d *Dataset) normalize() {
	for i := range d.Listings {
		l := &d.Listings[i]
		if l.Gender == "" {
			l.Gender = recommend.GenderAny
		}
		if l.Availability == "" {
			l.Availability = recommend.AvailabilityAvailable
		}
		for j, a := range l.Amenities {
			l.Amenities[j] = strings.ToLower(strings.TrimSpace(a))
		}
	}
	for i := range d.Engagement {
		r := &d.Engagement[i]
		y, m, day := r.Date.UTC().Date()
		r.Date = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}
}

// Validate checks referential and value constraints.
//
//nolint:gocyclo // validation needs to check many fields
func (d *Dataset) Validate() error {
	ids := make(map[string]struct{}, len(d.Listings))
	for i := range d.Listings {
		l := &d.Listings[i]
		if l.ID == "" {
			return fmt.Errorf("%w: listing %d has no id", ErrInvalid, i)
		}
		if _, dup := ids[l.ID]; dup {
			return fmt.Errorf("%w: duplicate listing id %q", ErrInvalid, l.ID)
		}
		ids[l.ID] = struct{}{}

		if l.Price < 0 {
			return fmt.Errorf("%w: listing %q has negative price", ErrInvalid, l.ID)
		}
		if l.Rating < 0 || l.Rating > 5 {
			return fmt.Errorf("%w: listing %q rating must be in [0, 5], got %f", ErrInvalid, l.ID, l.Rating)
		}
		if (l.Lat == nil) != (l.Lon == nil) {
			return fmt.Errorf("%w: listing %q must set both lat and lon or neither", ErrInvalid, l.ID)
		}
		if l.Lat != nil && (*l.Lat < -90 || *l.Lat > 90 || *l.Lon < -180 || *l.Lon > 180) {
			return fmt.Errorf("%w: listing %q coordinates out of range", ErrInvalid, l.ID)
		}
		switch l.Gender {
		case recommend.GenderAny, recommend.GenderMale, recommend.GenderFemale:
		default:
			return fmt.Errorf("%w: listing %q has unknown gender %q", ErrInvalid, l.ID, l.Gender)
		}
		switch l.Availability {
		case recommend.AvailabilityAvailable, recommend.AvailabilityOccupied, recommend.AvailabilityMaintenance:
		default:
			return fmt.Errorf("%w: listing %q has unknown availability %q", ErrInvalid, l.ID, l.Availability)
		}
	}

	for i := range d.Engagement {
		r := &d.Engagement[i]
		if _, ok := ids[r.ListingID]; !ok {
			return fmt.Errorf("%w: engagement record %d references unknown listing %q", ErrInvalid, i, r.ListingID)
		}
		if r.Views < 0 || r.Inquiries < 0 || r.Favorites < 0 || r.VisitRequests < 0 {
			return fmt.Errorf("%w: engagement record %d has negative counters", ErrInvalid, i)
		}
	}

	users := make(map[string]struct{}, len(d.Users))
	for i := range d.Users {
		u := &d.Users[i]
		if u.ID == "" {
			return fmt.Errorf("%w: user %d has no id", ErrInvalid, i)
		}
		if _, dup := users[u.ID]; dup {
			return fmt.Errorf("%w: duplicate user id %q", ErrInvalid, u.ID)
		}
		users[u.ID] = struct{}{}
		if u.PriceMin != nil && u.PriceMax != nil && *u.PriceMin > *u.PriceMax {
			return fmt.Errorf("%w: user %q price_min exceeds price_max", ErrInvalid, u.ID)
		}
	}

	for i := range d.Places {
		if strings.TrimSpace(d.Places[i].Name) == "" {
			return fmt.Errorf("%w: place %d has no name", ErrInvalid, i)
		}
	}
	return nil
}

// Listing converts the record to the engine type.
func (r *ListingRecord) Listing() recommend.Listing {
	l := recommend.Listing{
		ID:            r.ID,
		Title:         r.Title,
		Price:         r.Price,
		City:          r.City,
		Category:      r.Category,
		Amenities:     append([]string(nil), r.Amenities...),
		Gender:        r.Gender,
		Verified:      r.Verified,
		Rating:        r.Rating,
		Views:         r.Views,
		Favorites:     r.Favorites,
		Inquiries:     r.Inquiries,
		VisitRequests: r.VisitRequests,
		Active:        r.Active,
		Availability:  r.Availability,
		CreatedAt:     r.CreatedAt,
	}
	if r.Lat != nil && r.Lon != nil {
		l.Location = recommend.Some(recommend.GeoPoint{Lat: *r.Lat, Lon: *r.Lon})
	}
	return l
}

// FromListing converts an engine listing to its wire form.
func FromListing(l *recommend.Listing) ListingRecord {
	r := ListingRecord{
		ID:            l.ID,
		Title:         l.Title,
		Price:         l.Price,
		City:          l.City,
		Category:      l.Category,
		Amenities:     append([]string(nil), l.Amenities...),
		Gender:        l.Gender,
		Verified:      l.Verified,
		Rating:        l.Rating,
		Views:         l.Views,
		Favorites:     l.Favorites,
		Inquiries:     l.Inquiries,
		VisitRequests: l.VisitRequests,
		Active:        l.Active,
		Availability:  l.Availability,
		CreatedAt:     l.CreatedAt,
	}
	if p, ok := l.Location.Get(); ok {
		lat, lon := p.Lat, p.Lon
		r.Lat, r.Lon = &lat, &lon
	}
	return r
}

// Profile converts the record to the engine type.
func (u *UserRecord) Profile() *recommend.UserProfile {
	p := &recommend.UserProfile{
		ID:              u.ID,
		Affiliation:     u.Affiliation,
		SavedListingIDs: append([]string(nil), u.SavedListingIDs...),
		Gender:          u.Gender,
	}
	// A budget needs both bounds.
	if u.PriceMin != nil && u.PriceMax != nil {
		p.PriceRange = recommend.Some(recommend.PriceRange{Min: *u.PriceMin, Max: *u.PriceMax})
	}
	return p
}

// Place converts the record to the engine type.
func (p *PlaceRecord) Place() recommend.Place {
	return recommend.Place{
		Name:  p.Name,
		City:  p.City,
		Point: recommend.GeoPoint{Lat: p.Lat, Lon: p.Lon},
	}
}

// Keys returns the normalized lookup keys of the place: its name and aliases.
func (p *PlaceRecord) Keys() []string {
	keys := make([]string, 0, 1+len(p.Aliases))
	for _, k := range append([]string{p.Name}, p.Aliases...) {
		if k = NormalizeName(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// NormalizeName is the case and whitespace folding applied to place names.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
