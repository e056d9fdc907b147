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
)

// beginnerQuery selects cheap, popular listings. Explicit coordinates win
// over the city filter.
func (e *Engine) beginnerQuery(f *Filters, limit int) ListingQuery {
	bc := e.cfg.Beginner
	ceiling := bc.MaxPrice
	if rent, ok := f.MaxRent.Get(); ok {
		ceiling = math.Min(ceiling, rent)
	}

	q := ListingQuery{
		RequireVerified: e.cfg.Candidates.RequireVerified,
		MaxPrice:        Some(ceiling),
		Category:        strings.TrimSpace(f.Category),
		AllAmenities:    f.Amenities,
		SortBy:          SortPopularity,
		Limit:           limit,
	}
	if near, ok := f.Near.Get(); ok {
		q.Near = Some(near)
		q.RadiusKm = bc.RadiusKm
		q.StrictGeo = true
	} else {
		q.City = strings.TrimSpace(f.City)
	}
	return q
}

func (e *Engine) beginner(ctx context.Context, f *Filters, limit int) (stageResult, error) {
	found, err := e.listings.FindListings(ctx, e.beginnerQuery(f, limit))
	if err != nil {
		return stageResult{}, fmt.Errorf("beginner: find listings: %w", err)
	}
	SortListings(found, SortPopularity, None[GeoPoint]())
	items := make([]Item, 0, len(found))
	for i := range found {
		items = append(items, Item{
			ListingID: found[i].ID,
			Reasons:   []string{ReasonBeginner},
			createdAt: found[i].CreatedAt,
		})
	}
	return stageResult{items: capItems(items, limit), candidates: len(found)}, nil
}
