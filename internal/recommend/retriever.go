// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"context"
	"fmt"
	"strings"
)

// candidateQuery derives the retrieval query for a profile and the request
// filters.
func (e *Engine) candidateQuery(p *PreferenceProfile, f *Filters) ListingQuery {
	cc := e.cfg.Candidates
	q := ListingQuery{
		RequireVerified: cc.RequireVerified,
		MinPrice:        Some(p.PriceRange.Min),
		MaxPrice:        Some(p.PriceRange.Max),
		City:            strings.TrimSpace(f.City),
		Gender:          p.Gender,
		AnyAmenities:    p.Amenities,
		AllAmenities:    f.Amenities,
		SortBy:          SortNewest,
		Limit:           cc.MaxCandidates,
	}

	if rent, ok := f.MaxRent.Get(); ok && rent < p.PriceRange.Max {
		q.MaxPrice = Some(rent)
		if rent < p.PriceRange.Min {
			q.MinPrice = Some(rent)
		}
	}

	if a, ok := p.Anchor.Get(); ok {
		if pt, located := a.Point.Get(); located {
			q.Near = Some(pt)
			q.RadiusKm = cc.RadiusKm
			q.SortBy = SortProximity
		}
	}

	if c := strings.TrimSpace(f.Category); c != "" {
		q.Category = c
	} else if c, ok := p.Category.Get(); ok {
		q.Category = c
	}

	return q
}

// retrieve runs the fallback chain and returns the first non-empty result
// with the name of the strategy that produced it. The last strategy name is
// returned when every step came back empty.
func (e *Engine) retrieve(ctx context.Context, q ListingQuery) ([]Listing, string, error) {
	last := StrategyAsRequested
	for _, s := range e.chain {
		next, applies := s.Widen(q)
		if !applies {
			continue
		}
		q = next
		last = s.Name

		found, err := e.listings.FindListings(ctx, q)
		if err != nil {
			return nil, s.Name, fmt.Errorf("retrieve %s: %w", s.Name, err)
		}
		if len(found) > 0 {
			if len(found) > q.Limit {
				found = found[:q.Limit]
			}
			return found, s.Name, nil
		}
	}
	return nil, last, nil
}
