// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"context"
	"math"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -n)
}

// spread distributes totals over n consecutive days ending today.
func spread(id string, n, views, inquiries, favorites, visits int) []EngagementRecord {
	out := make([]EngagementRecord, n)
	for i := range out {
		out[i] = EngagementRecord{ListingID: id, Date: day(i)}
	}
	out[0].Views = views
	out[0].Inquiries = inquiries
	out[0].Favorites = favorites
	out[0].VisitRequests = visits
	return out
}

func TestTrendingScore(t *testing.T) {
	t.Parallel()

	tc := DefaultConfig().Trending
	tests := []struct {
		name string
		in   TrendTotals
		want float64
	}{
		{"scenario", TrendTotals{Views: 100, Inquiries: 5, Favorites: 2, VisitRequests: 1, ActiveDays: 10}, 51},
		{"no activity", TrendTotals{}, 0},
		{"single day", TrendTotals{Views: 10, ActiveDays: 1}, 3 + 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrendingScore(tc, tt.in); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TrendingScore() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAggregateTrends(t *testing.T) {
	t.Parallel()

	since := testNow.Add(-30 * 24 * time.Hour)
	records := append(spread("a", 10, 100, 5, 2, 1), EngagementRecord{ListingID: "a", Date: day(45), Views: 1000})
	// Two records on the same day count as one active day.
	records = append(records, EngagementRecord{ListingID: "a", Date: day(0).Add(3 * time.Hour)})

	totals := aggregateTrends(records, since)
	got := totals["a"]
	if got == nil {
		t.Fatal("no totals for listing a")
	}
	want := TrendTotals{Views: 100, Inquiries: 5, Favorites: 2, VisitRequests: 1, ActiveDays: 10}
	if *got != want {
		t.Errorf("totals = %+v, want %+v", *got, want)
	}
}

func TestEngine_Trending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	hot := listing("hot", 9000, "Pune")
	warm := listing("warm", 7000, "Pune")
	warm.Category = "1RK"
	inactive := listing("inactive", 5000, "Pune")
	inactive.Active = false
	occupied := listing("occupied", 5000, "Pune")
	occupied.Availability = AvailabilityOccupied
	far := listing("far", 5000, "Delhi")

	var records []EngagementRecord
	records = append(records, spread("hot", 10, 100, 5, 2, 1)...)
	records = append(records, spread("warm", 5, 50, 0, 0, 0)...)
	records = append(records, spread("inactive", 5, 9999, 0, 0, 0)...)
	records = append(records, spread("occupied", 5, 9999, 0, 0, 0)...)
	records = append(records, spread("far", 1, 1, 0, 0, 0)...)

	fs := &fakeStore{
		listings:   []Listing{hot, warm, inactive, occupied, far},
		engagement: records,
	}
	e := newTestEngine(t, nil, fs)

	t.Run("ranked by windowed engagement", func(t *testing.T) {
		res, err := e.trending(ctx, &Filters{}, 10)
		if err != nil {
			t.Fatalf("trending() error = %v", err)
		}
		ids := itemIDs(res.items)
		want := []string{"hot", "warm", "far"}
		if !equalIDs(ids, want) {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
		if got := *res.items[0].TrendingScore; math.Abs(got-51) > 1e-9 {
			t.Errorf("hot trending score = %f, want 51", got)
		}
		if want := "Trending over the last 30 days"; res.items[0].Reasons[0] != want {
			t.Errorf("reason = %q, want %q", res.items[0].Reasons[0], want)
		}
		if res.fallback != "" {
			t.Errorf("fallback = %q, want none", res.fallback)
		}
	})

	t.Run("filters", func(t *testing.T) {
		res, err := e.trending(ctx, &Filters{City: "pune", Category: "1RK", MaxRent: Some(8000.0)}, 10)
		if err != nil {
			t.Fatalf("trending() error = %v", err)
		}
		if ids := itemIDs(res.items); !equalIDs(ids, []string{"warm"}) {
			t.Errorf("ids = %v, want [warm]", ids)
		}
	})

	t.Run("popularity fallback under the same filters", func(t *testing.T) {
		old := listing("old", 4000, "Agra")
		old.Views = 10
		old.CreatedAt = testNow.Add(-90 * 24 * time.Hour)
		fresh := listing("fresh", 4000, "Agra")
		fresh.Views = 10
		popular := listing("popular", 4000, "Agra")
		popular.Views = 500
		other := listing("other", 4000, "Jaipur")
		other.Views = 10000

		fs := &fakeStore{listings: []Listing{old, fresh, popular, other}}
		e := newTestEngine(t, nil, fs)

		res, err := e.trending(ctx, &Filters{City: "Agra"}, 10)
		if err != nil {
			t.Fatalf("trending() error = %v", err)
		}
		if ids := itemIDs(res.items); !equalIDs(ids, []string{"popular", "fresh", "old"}) {
			t.Errorf("ids = %v, want [popular fresh old]", ids)
		}
		if res.fallback != FallbackPopularity {
			t.Errorf("fallback = %q, want %q", res.fallback, FallbackPopularity)
		}
		for _, it := range res.items {
			if it.TrendingScore == nil || *it.TrendingScore != 0 {
				t.Errorf("%s trending score = %v, want 0", it.ListingID, it.TrendingScore)
			}
			if it.Reasons[0] != ReasonPopular {
				t.Errorf("%s reason = %q, want %q", it.ListingID, it.Reasons[0], ReasonPopular)
			}
		}
	})

	t.Run("records outside the window are ignored", func(t *testing.T) {
		stale := listing("stale", 4000, "Agra")
		fs := &fakeStore{
			listings:   []Listing{stale},
			engagement: []EngagementRecord{{ListingID: "stale", Date: day(40), Views: 100}},
		}
		e := newTestEngine(t, nil, fs)
		res, err := e.trending(ctx, &Filters{}, 10)
		if err != nil {
			t.Fatalf("trending() error = %v", err)
		}
		if res.fallback != FallbackPopularity {
			t.Errorf("fallback = %q, want %q", res.fallback, FallbackPopularity)
		}
	})
}

func itemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ListingID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTrendingReason(t *testing.T) {
	tests := []struct {
		window time.Duration
		want   string
	}{
		{30 * 24 * time.Hour, "Trending over the last 30 days"},
		{7 * 24 * time.Hour, "Trending over the last 7 days"},
		{24 * time.Hour, "Trending over the last day"},
		{36 * time.Hour, "Trending over the last 36h0m0s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := trendingReason(tt.window); got != tt.want {
				t.Errorf("trendingReason(%v) = %q, want %q", tt.window, got, tt.want)
			}
		})
	}
}
