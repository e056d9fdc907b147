// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"fmt"
	"math"
	"slices"
	"testing"
)

func TestScorer_PerfectMatch(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())
	anchor := GeoPoint{Lat: 28.6139, Lon: 77.2090}
	p := &PreferenceProfile{
		PriceRange: PriceRange{Min: 6000, Max: 10000},
		Anchor:     Some(Anchor{City: "Delhi", Point: Some(anchor), Source: AnchorFromHistory}),
		Category:   Some("PG"),
		Amenities:  []string{"wifi", "ac", "laundry"},
		Gender:     Some(GenderFemale),
	}
	l := listing("a", 8000, "Delhi")
	l.Location = Some(anchor)
	l.Amenities = []string{"wifi", "ac", "laundry", "parking"}
	l.Verified = true
	l.Rating = 4.6
	l.Views = 1000

	score, c := s.Score(&l, p)

	for name, got := range map[string]Optional[float64]{"location": c.Location, "price": c.Price, "amenity": c.Amenity} {
		v, ok := got.Get()
		if !ok || v != 100 {
			t.Errorf("%s component = (%f, %v), want (100, true)", name, v, ok)
		}
	}
	if c.Trust != 100 {
		t.Errorf("trust = %f, want 100", c.Trust)
	}
	if c.Popularity != 100 {
		t.Errorf("popularity = %f, want 100", c.Popularity)
	}
	if score != 100 {
		t.Errorf("score = %d, want 100", score)
	}
	if km, ok := c.DistanceKm.Get(); !ok || km != 0 {
		t.Errorf("distance = (%f, %v), want (0, true)", km, ok)
	}
}

func TestScorer_PriceComponent(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())
	tests := []struct {
		name   string
		rng    PriceRange
		price  float64
		want   float64
		wantOK bool
	}{
		{"at midpoint", PriceRange{Min: 5000, Max: 9000}, 7000, 100, true},
		{"far above range", PriceRange{Min: 5000, Max: 9000}, 20000, 100 - 50*(20000.0/7000-1), true},
		{"three times midpoint floors at zero", PriceRange{Min: 5000, Max: 9000}, 21000, 0, true},
		{"half of midpoint", PriceRange{Min: 0, Max: 20000}, 5000, 75, true},
		{"zero midpoint not applicable", PriceRange{Min: 0, Max: 0}, 5000, 0, false},
		{"free listing not applicable", PriceRange{Min: 0, Max: 20000}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := listing("x", tt.price, "Pune")
			c := s.Components(&l, &PreferenceProfile{PriceRange: tt.rng})
			got, ok := c.Price.Get()
			if ok != tt.wantOK {
				t.Fatalf("price applicable = %v, want %v", ok, tt.wantOK)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("price component = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScorer_LocationComponent(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())
	anchor := GeoPoint{Lat: 0, Lon: 0}
	p := &PreferenceProfile{
		PriceRange: PriceRange{Min: 0, Max: 20000},
		Anchor:     Some(Anchor{City: "X", Point: Some(anchor)}),
	}

	t.Run("linear decay", func(t *testing.T) {
		l := listing("a", 10000, "X")
		l.Location = at(1, 0) // ~111 km
		c := s.Components(&l, p)
		if v, ok := c.Location.Get(); !ok || v != 0 {
			t.Errorf("location = (%f, %v), want (0, true)", v, ok)
		}

		l.Location = at(0.05, 0) // ~5.56 km
		c = s.Components(&l, p)
		v, _ := c.Location.Get()
		km, _ := c.DistanceKm.Get()
		if math.Abs(v-(100-5*km)) > 1e-9 {
			t.Errorf("location = %f, want %f", v, 100-5*km)
		}
	})

	t.Run("candidate without coordinates omits the component", func(t *testing.T) {
		l := listing("b", 10000, "X")
		c := s.Components(&l, p)
		if c.Location.IsSet() || c.DistanceKm.IsSet() {
			t.Error("location component set for listing without coordinates")
		}
	})

	t.Run("anchor without point omits the component", func(t *testing.T) {
		l := listing("c", 10000, "X")
		l.Location = at(0, 0)
		c := s.Components(&l, &PreferenceProfile{
			PriceRange: PriceRange{Min: 0, Max: 20000},
			Anchor:     Some(Anchor{City: "X"}),
		})
		if c.Location.IsSet() {
			t.Error("location component set for anchor without coordinates")
		}
	})
}

func TestScorer_Renormalization(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())
	// Only price, trust and popularity apply.
	l := listing("a", 10000, "X")
	l.Verified = true
	l.Rating = 4.2
	p := &PreferenceProfile{PriceRange: PriceRange{Min: 0, Max: 20000}}

	score, c := s.Score(&l, p)
	// price 100, trust 50, popularity 0 over weights 0.25/0.15/0.10.
	want := int(math.Round((100*0.25 + 50*0.15 + 0*0.10) / 0.50))
	if c.Trust != 50 {
		t.Errorf("trust = %f, want 50", c.Trust)
	}
	if score != want {
		t.Errorf("score = %d, want %d", score, want)
	}
}

func TestScorer_GenderCompatibility(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())
	tests := []struct {
		listing Gender
		pref    Optional[Gender]
		want    float64
	}{
		{GenderAny, Some(GenderMale), 20},
		{GenderMale, Some(GenderMale), 20},
		{GenderFemale, Some(GenderMale), 0},
		{GenderAny, None[Gender](), 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.listing, tt.pref.OrElse("unset")), func(t *testing.T) {
			l := listing("g", 1000, "X")
			l.Category = "1BHK"
			l.Gender = tt.listing
			c := s.Components(&l, &PreferenceProfile{PriceRange: PriceRange{Max: 2000}, Gender: tt.pref})
			if c.Trust != tt.want {
				t.Errorf("trust = %f, want %f", c.Trust, tt.want)
			}
		})
	}
}

func TestScorer_ScoreBounds(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	s := NewScorer(cfg)

	prices := []float64{0, 1, 500, 7000, 19999, 50000, 1e7}
	views := []int{0, 10, 100000}
	amenitySets := [][]string{nil, {"wifi"}, {"wifi", "ac", "gym", "pool", "lift"}}
	locations := []Optional[GeoPoint]{None[GeoPoint](), at(12.97, 77.59), at(-45, 170)}

	for _, price := range prices {
		for _, v := range views {
			for _, am := range amenitySets {
				for _, loc := range locations {
					l := listing("b", price, "Bengaluru")
					l.Views = v
					l.Favorites = v
					l.Inquiries = v
					l.Amenities = am
					l.Location = loc
					l.Rating = 5
					l.Verified = true
					p := &PreferenceProfile{
						PriceRange: PriceRange{Min: 0, Max: 20000},
						Anchor:     Some(Anchor{City: "Bengaluru", Point: Some(GeoPoint{Lat: 12.97, Lon: 77.59})}),
						Category:   Some("PG"),
						Amenities:  []string{"wifi", "ac"},
						Gender:     Some(GenderMale),
					}
					score, _ := s.Score(&l, p)
					if score < 0 || score > 100 {
						t.Fatalf("score = %d out of [0, 100] for price=%f views=%d", score, price, v)
					}
				}
			}
		}
	}
}

func TestMatchReasons(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	s := NewScorer(cfg)

	l := listing("r", 8000, "Delhi")
	l.Location = at(28.62, 77.21)
	l.Amenities = []string{"wifi", "ac"}
	l.Verified = true
	l.Rating = 4.5
	l.Views = 2000
	p := &PreferenceProfile{
		PriceRange: PriceRange{Min: 6000, Max: 10000},
		Anchor:     Some(Anchor{City: "Delhi", Point: Some(GeoPoint{Lat: 28.6139, Lon: 77.2090})}),
		Category:   Some("PG"),
		Amenities:  []string{"wifi", "ac", "laundry"},
	}

	score, c := s.Score(&l, p)
	got := matchReasons(cfg.Reasons, cfg.Scoring, score, &c, &l, p)
	want := []string{
		ReasonExcellent,
		ReasonVeryClose,
		ReasonInBudget,
		"Has 2 of your preferred amenities",
		ReasonHighlyRated,
		ReasonVerified,
	}
	if !slices.Equal(got, want) {
		t.Errorf("reasons = %q, want %q", got, want)
	}

	t.Run("low score has no tier reason", func(t *testing.T) {
		plain := listing("p", 40000, "Delhi")
		p := &PreferenceProfile{PriceRange: PriceRange{Min: 0, Max: 10000}}
		score, c := s.Score(&plain, p)
		got := matchReasons(cfg.Reasons, cfg.Scoring, score, &c, &plain, p)
		if len(got) != 0 {
			t.Errorf("reasons = %q, want none (score %d)", got, score)
		}
	})
}
