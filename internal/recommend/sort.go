// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// SortListings orders listings in place as FindListings implementations must.
// Ties always fall back to newest first, then ascending id, so the order is
// deterministic for a given snapshot.
func SortListings(listings []Listing, by SortBy, near Optional[GeoPoint]) {
	switch by {
	case SortProximity:
		origin, ok := near.Get()
		if !ok {
			slices.SortStableFunc(listings, compareNewest)
			return
		}
		dist := func(l *Listing) float64 {
			if p, located := l.Location.Get(); located {
				return DistanceKm(origin, p)
			}
			return math.Inf(1)
		}
		slices.SortStableFunc(listings, func(a, b Listing) int {
			if c := cmp.Compare(dist(&a), dist(&b)); c != 0 {
				return c
			}
			return compareNewest(a, b)
		})
	case SortPopularity:
		slices.SortStableFunc(listings, comparePopular)
	case SortNewest:
		slices.SortStableFunc(listings, compareNewest)
	case SortMostViewed:
		slices.SortStableFunc(listings, func(a, b Listing) int {
			if c := cmp.Compare(b.Views, a.Views); c != 0 {
				return c
			}
			return compareNewest(a, b)
		})
	}
}

// comparePopular orders by views desc, rating desc, then newest.
func comparePopular(a, b Listing) int {
	if c := cmp.Compare(b.Views, a.Views); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
		return c
	}
	return compareNewest(a, b)
}

func compareNewest(a, b Listing) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// sortItems orders ranked items by key desc, then newest, then id.
func sortItems(items []Item, key func(*Item) float64) {
	slices.SortStableFunc(items, func(a, b Item) int {
		if c := cmp.Compare(key(&b), key(&a)); c != 0 {
			return c
		}
		if c := b.createdAt.Compare(a.createdAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ListingID, b.ListingID)
	})
}
