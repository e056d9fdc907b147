// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package dataset

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/roomrank/internal/recommend"
)

func TestLoad_Sample(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "sample.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(ds.Listings) != 3 || len(ds.Engagement) != 2 || len(ds.Users) != 2 || len(ds.Places) != 1 {
		t.Fatalf("counts = %d/%d/%d/%d, want 3/2/2/1",
			len(ds.Listings), len(ds.Engagement), len(ds.Users), len(ds.Places))
	}

	t.Run("listing defaults and conversion", func(t *testing.T) {
		hk := ds.Listings[1].Listing()
		if hk.Availability != recommend.AvailabilityAvailable {
			t.Errorf("availability = %q, want default available", hk.Availability)
		}
		pn := ds.Listings[2].Listing()
		if pn.Gender != recommend.GenderAny {
			t.Errorf("gender = %q, want default any", pn.Gender)
		}
		if pn.Location.IsSet() {
			t.Error("Pune listing has coordinates, want none")
		}
		cp := ds.Listings[0].Listing()
		if p, ok := cp.Location.Get(); !ok || p.Lat != 28.6315 {
			t.Errorf("location = (%v, %v), want Connaught Place", p, ok)
		}
		if !slices.Equal(cp.Amenities, []string{"wifi", "ac"}) {
			t.Errorf("amenities = %v, want lower-cased", cp.Amenities)
		}
	})

	t.Run("engagement dates truncated to day", func(t *testing.T) {
		want := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
		if got := ds.Engagement[0].Date; !got.Equal(want) {
			t.Errorf("date = %v, want %v", got, want)
		}
		if ds.Engagement[0].Visitors[0].UserID != "u-1" {
			t.Errorf("visitor = %+v", ds.Engagement[0].Visitors[0])
		}
	})

	t.Run("user budget", func(t *testing.T) {
		if ds.Users[0].Profile().PriceRange.IsSet() {
			t.Error("u-1 has a price range, want none")
		}
		r, ok := ds.Users[1].Profile().PriceRange.Get()
		if !ok || r != (recommend.PriceRange{Min: 3000, Max: 6000}) {
			t.Errorf("u-2 price range = (%+v, %v), want [3000, 6000]", r, ok)
		}
	})

	t.Run("place keys", func(t *testing.T) {
		want := []string{"iit delhi", "indian institute of technology delhi", "iitd"}
		if got := ds.Places[0].Keys(); !slices.Equal(got, want) {
			t.Errorf("Keys() = %v, want %v", got, want)
		}
	})
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"listings": [`},
		{"missing id", `{"listings": [{"price": 1}]}`},
		{"duplicate id", `{"listings": [{"id": "a"}, {"id": "a"}]}`},
		{"negative price", `{"listings": [{"id": "a", "price": -1}]}`},
		{"rating out of range", `{"listings": [{"id": "a", "rating": 6}]}`},
		{"half coordinates", `{"listings": [{"id": "a", "lat": 1}]}`},
		{"bad latitude", `{"listings": [{"id": "a", "lat": 91, "lon": 0}]}`},
		{"unknown gender", `{"listings": [{"id": "a", "gender": "other"}]}`},
		{"unknown availability", `{"listings": [{"id": "a", "availability": "sold"}]}`},
		{"dangling engagement", `{"engagement": [{"listing_id": "zz", "date": "2026-01-01T00:00:00Z"}]}`},
		{"negative counters", `{"listings": [{"id": "a"}], "engagement": [{"listing_id": "a", "views": -3}]}`},
		{"duplicate user", `{"users": [{"id": "u"}, {"id": "u"}]}`},
		{"inverted budget", `{"users": [{"id": "u", "price_min": 9, "price_max": 1}]}`},
		{"unnamed place", `{"places": [{"name": " "}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Decode() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestEncode_RoundTripPreservesCoordinates(t *testing.T) {
	lat, lon := 12.5, 77.25
	l := recommend.Listing{ID: "x", Active: true, Availability: recommend.AvailabilityAvailable, Gender: recommend.GenderAny,
		Location: recommend.Some(recommend.GeoPoint{Lat: lat, Lon: lon})}
	ds := &Dataset{Listings: []ListingRecord{FromListing(&l)}}

	var buf bytes.Buffer
	if err := ds.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	p, ok := back.Listings[0].Listing().Location.Get()
	if !ok || p.Lat != lat || p.Lon != lon {
		t.Errorf("location = (%v, %v), want (%v, %v)", p, ok, lat, lon)
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  IIT   Delhi "); got != "iit delhi" {
		t.Errorf("NormalizeName() = %q, want %q", got, "iit delhi")
	}
}
