// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

/*
Package cache provides thread-safe in-memory data structures used by the
stores and the location resolver.

# Overview

  - LRU: generic least recently used cache with per-entry TTL and lazy
    expiration. Backs the in-process tier of the affiliation lookup cache.
  - SpatialHashGrid: fixed-size lat/lon cells for radius pre-filtering of
    listings in the in-memory store.

# Usage Example

	lru := cache.NewLRU[recommend.Place](1024, time.Hour)
	lru.Add("iit delhi", place)
	if p, ok := lru.Get("iit delhi"); ok {
	    // use p
	}

	grid := cache.NewSpatialHashGrid(10)
	grid.Insert("listing-1", 28.61, 77.21)
	ids := grid.QueryNearby(28.60, 77.20, 20) // superset, filter by exact distance

# Thread Safety

All types are safe for concurrent use.
*/
package cache
