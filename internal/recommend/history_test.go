// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestInteractionIDs(t *testing.T) {
	t.Parallel()

	got := interactionIDs([]string{"a", "b", "", "a"}, []string{"c", "b", "d"})
	want := []string{"a", "b", "c", "d"}
	if !slices.Equal(got, want) {
		t.Errorf("interactionIDs() = %v, want %v", got, want)
	}

	if got := interactionIDs(nil, nil); len(got) != 0 {
		t.Errorf("interactionIDs(nil, nil) = %v, want empty", got)
	}
}

func TestBuildHistory(t *testing.T) {
	t.Parallel()

	mk := func(id, city, cat string, price float64, amenities ...string) Listing {
		l := listing(id, price, city)
		l.Category = cat
		l.Amenities = amenities
		return l
	}
	fs := &fakeStore{listings: []Listing{
		mk("1", "Pune", "PG", 6000, "wifi", "ac"),
		mk("2", "Delhi", "1RK", 9000, "ac", "laundry"),
		mk("3", "Delhi", "PG", 12000, "wifi"),
		mk("4", "Mumbai", "1BHK", 3000, "gym"),
		mk("5", "Noida", "Hostel", 5000),
	}}
	fs.listings[1].Location = at(28.5, 77.0)
	fs.listings[2].Location = at(28.75, 77.5)

	e := newTestEngine(t, nil, fs)

	t.Run("cold", func(t *testing.T) {
		h, err := e.buildHistory(context.Background(), nil)
		if err != nil {
			t.Fatalf("buildHistory() error = %v", err)
		}
		if !h.Cold() || h.MeanPrice.IsSet() {
			t.Errorf("history = %+v, want cold", h)
		}
	})

	t.Run("aggregates", func(t *testing.T) {
		h, err := e.buildHistory(context.Background(), []string{"1", "2", "3", "4", "5", "missing"})
		if err != nil {
			t.Fatalf("buildHistory() error = %v", err)
		}

		mean, ok := h.MeanPrice.Get()
		if !ok || mean != 7000 {
			t.Errorf("mean price = (%f, %v), want (7000, true)", mean, ok)
		}

		wantCities := []CityCount{{"Delhi", 2}, {"Pune", 1}, {"Mumbai", 1}}
		if !slices.Equal(h.TopCities, wantCities) {
			t.Errorf("top cities = %v, want %v", h.TopCities, wantCities)
		}
		if want := []string{"PG", "1RK"}; !slices.Equal(h.TopCategories, want) {
			t.Errorf("top categories = %v, want %v", h.TopCategories, want)
		}
		if want := []string{"wifi", "ac", "laundry", "gym"}; !slices.Equal(h.TopAmenities, want) {
			t.Errorf("top amenities = %v, want %v", h.TopAmenities, want)
		}

		c, ok := h.Centroids["Delhi"]
		if !ok || c.Lat != 28.625 || c.Lon != 77.25 {
			t.Errorf("Delhi centroid = (%v, %v), want ({28.625 77.25}, true)", c, ok)
		}
		if _, ok := h.Centroids["Pune"]; ok {
			t.Error("Pune centroid set for listing without coordinates")
		}
	})

	t.Run("reader error", func(t *testing.T) {
		fs := &fakeStore{getErr: errors.New("db down")}
		e := newTestEngine(t, nil, fs)
		if _, err := e.buildHistory(context.Background(), []string{"1"}); err == nil {
			t.Error("buildHistory() error = nil, want error")
		}
	})
}

func TestBuildPreference(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := testLogger()
	fs := &fakeStore{places: map[string]Place{
		"iit delhi": {Name: "IIT Delhi", City: "Delhi", Point: GeoPoint{Lat: 28.5450, Lon: 77.1926}},
	}}
	e := newTestEngine(t, nil, fs)

	t.Run("defaults", func(t *testing.T) {
		p := e.buildPreference(ctx, nil, &InteractionHistory{}, log)
		if p.PriceRange != (PriceRange{Min: 0, Max: 20000}) {
			t.Errorf("price range = %+v, want [0, 20000]", p.PriceRange)
		}
		if !p.Wide() {
			t.Errorf("profile = %+v, want wide", p)
		}
	})

	tests := []struct {
		name string
		mean float64
		want float64
	}{
		{"low mean keeps default max", 5000, 20000},
		{"mean widens max", 20000, 26000},
		{"widening is capped", 45000, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &InteractionHistory{ListingIDs: []string{"x"}, MeanPrice: Some(tt.mean)}
			p := e.buildPreference(ctx, nil, h, log)
			if p.PriceRange.Max != tt.want {
				t.Errorf("max = %f, want %f", p.PriceRange.Max, tt.want)
			}
		})
	}

	t.Run("explicit range overrides default", func(t *testing.T) {
		u := &UserProfile{ID: "u", PriceRange: Some(PriceRange{Min: 4000, Max: 8000}), Gender: GenderFemale}
		p := e.buildPreference(ctx, u, &InteractionHistory{}, log)
		if p.PriceRange != (PriceRange{Min: 4000, Max: 8000}) || !p.Explicit {
			t.Errorf("profile = %+v, want explicit [4000, 8000]", p)
		}
		if g, ok := p.Gender.Get(); !ok || g != GenderFemale {
			t.Errorf("gender = (%v, %v), want (female, true)", g, ok)
		}
	})

	t.Run("history anchor and signals", func(t *testing.T) {
		h := &InteractionHistory{
			ListingIDs:    []string{"x"},
			TopCities:     []CityCount{{"Delhi", 2}, {"Pune", 1}},
			TopCategories: []string{"PG", "1RK"},
			TopAmenities:  []string{"wifi", "ac", "laundry", "gym", "lift"},
			Centroids:     map[string]GeoPoint{"Delhi": {Lat: 28.61, Lon: 77.21}},
		}
		u := &UserProfile{ID: "u", Affiliation: "IIT Delhi"}
		before := fs.resolveCalls.Load()
		p := e.buildPreference(ctx, u, h, log)

		a, ok := p.Anchor.Get()
		if !ok || a.City != "Delhi" || a.Source != AnchorFromHistory {
			t.Fatalf("anchor = (%+v, %v), want history Delhi", a, ok)
		}
		if pt, ok := a.Point.Get(); !ok || pt != (GeoPoint{Lat: 28.61, Lon: 77.21}) {
			t.Errorf("anchor point = (%v, %v), want centroid", pt, ok)
		}
		if fs.resolveCalls.Load() != before {
			t.Error("affiliation resolved although history had a top city")
		}
		if c, _ := p.Category.Get(); c != "PG" {
			t.Errorf("category = %q, want PG", c)
		}
		if want := []string{"wifi", "ac", "laundry"}; !slices.Equal(p.Amenities, want) {
			t.Errorf("amenities = %v, want %v", p.Amenities, want)
		}
	})

	t.Run("affiliation anchor", func(t *testing.T) {
		u := &UserProfile{ID: "u", Affiliation: "IIT Delhi"}
		p := e.buildPreference(ctx, u, &InteractionHistory{}, log)
		a, ok := p.Anchor.Get()
		if !ok || a.Source != AnchorFromAffiliation || a.City != "Delhi" {
			t.Fatalf("anchor = (%+v, %v), want affiliation Delhi", a, ok)
		}
		if p.Wide() {
			t.Error("profile with anchor reported wide")
		}
	})

	t.Run("unknown affiliation", func(t *testing.T) {
		u := &UserProfile{ID: "u", Affiliation: "Nowhere College"}
		p := e.buildPreference(ctx, u, &InteractionHistory{}, log)
		if p.Anchor.IsSet() {
			t.Errorf("anchor set for unknown affiliation: %+v", p.Anchor)
		}
	})

	t.Run("resolver failure means no anchor", func(t *testing.T) {
		fs := &fakeStore{resolveErr: errors.New("lookup down")}
		e := newTestEngine(t, nil, fs)
		u := &UserProfile{ID: "u", Affiliation: "IIT Delhi"}
		p := e.buildPreference(ctx, u, &InteractionHistory{}, log)
		if p.Anchor.IsSet() {
			t.Error("anchor set after resolver failure")
		}
	})
}
