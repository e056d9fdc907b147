// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// TrendTotals is the windowed engagement of one listing.
type TrendTotals struct {
	Views         int
	Inquiries     int
	Favorites     int
	VisitRequests int

	// ActiveDays is the number of distinct days with a record.
	ActiveDays int
}

// TrendingScore applies the trending formula to t. The result is never negative.
func TrendingScore(tc TrendingConfig, t TrendTotals) float64 {
	score := tc.Views*float64(t.Views) +
		tc.Inquiries*float64(t.Inquiries) +
		tc.Favorites*float64(t.Favorites) +
		tc.VisitRequests*float64(t.VisitRequests)
	if t.ActiveDays > 0 {
		score += tc.DailyViews * float64(t.Views) / float64(t.ActiveDays)
	}
	return math.Max(0, score)
}

// aggregateTrends folds daily records into per-listing totals. Records before
// since are ignored.
func aggregateTrends(records []EngagementRecord, since time.Time) map[string]*TrendTotals {
	totals := make(map[string]*TrendTotals)
	days := make(map[string]map[string]struct{})
	for i := range records {
		r := &records[i]
		if r.Date.Before(since) {
			continue
		}
		t, ok := totals[r.ListingID]
		if !ok {
			t = &TrendTotals{}
			totals[r.ListingID] = t
			days[r.ListingID] = make(map[string]struct{})
		}
		t.Views += r.Views
		t.Inquiries += r.Inquiries
		t.Favorites += r.Favorites
		t.VisitRequests += r.VisitRequests
		days[r.ListingID][r.Date.UTC().Format(time.DateOnly)] = struct{}{}
	}
	for id, t := range totals {
		t.ActiveDays = len(days[id])
	}
	return totals
}

// trendFilterQuery is the eligibility and filter query shared by the trend
// aggregator and its popularity fallback.
func (e *Engine) trendFilterQuery(f *Filters) ListingQuery {
	q := ListingQuery{
		RequireVerified: e.cfg.Candidates.RequireVerified,
		City:            strings.TrimSpace(f.City),
		Category:        strings.TrimSpace(f.Category),
	}
	if rent, ok := f.MaxRent.Get(); ok {
		q.MaxPrice = Some(rent)
	}
	return q
}

type stageResult struct {
	items      []Item
	candidates int
	fallback   string
}

// trending ranks eligible listings by windowed engagement and falls back to
// lifetime views when nothing in the window matches.
func (e *Engine) trending(ctx context.Context, f *Filters, limit int) (stageResult, error) {
	since := e.now().Add(-e.cfg.Trending.Window)
	records, err := e.engagement.EngagementSince(ctx, since, nil)
	if err != nil {
		return stageResult{}, fmt.Errorf("trending: engagement: %w", err)
	}

	q := e.trendFilterQuery(f)
	totals := aggregateTrends(records, since)

	var items []Item
	if len(totals) > 0 {
		ids := make([]string, 0, len(totals))
		for id := range totals {
			ids = append(ids, id)
		}
		reason := trendingReason(e.cfg.Trending.Window)
		listings, err := e.listings.GetListings(ctx, ids)
		if err != nil {
			return stageResult{}, fmt.Errorf("trending: get listings: %w", err)
		}
		for i := range listings {
			l := &listings[i]
			if !q.Matches(l) {
				continue
			}
			score := TrendingScore(e.cfg.Trending, *totals[l.ID])
			items = append(items, Item{
				ListingID:     l.ID,
				TrendingScore: &score,
				Reasons:       []string{reason},
				createdAt:     l.CreatedAt,
			})
		}
	}

	if len(items) > 0 {
		sortItems(items, func(it *Item) float64 { return *it.TrendingScore })
		return stageResult{items: capItems(items, limit), candidates: len(items)}, nil
	}

	q.SortBy = SortMostViewed
	q.Limit = limit
	popular, err := e.listings.FindListings(ctx, q)
	if err != nil {
		return stageResult{}, fmt.Errorf("trending: popularity fallback: %w", err)
	}
	items = make([]Item, 0, len(popular))
	for i := range popular {
		zero := 0.0
		items = append(items, Item{
			ListingID:     popular[i].ID,
			TrendingScore: &zero,
			Reasons:       []string{ReasonPopular},
			createdAt:     popular[i].CreatedAt,
		})
	}
	return stageResult{items: capItems(items, limit), candidates: len(popular), fallback: FallbackPopularity}, nil
}

func capItems(items []Item, limit int) []Item {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
