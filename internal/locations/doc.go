// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

// Package locations caches place lookups in front of a
// recommend.LocationResolver.
//
// Lookups go through two tiers. The first is an in-process LRU. The second,
// when enabled, is a BadgerDB keyspace whose entries carry Badger TTLs, so
// resolved affiliations survive restarts. Misses are cached too, for the
// shorter NegativeTTL, so a user with an unknown affiliation does not hit
// the store on every request. Errors are never cached.
//
// Usage:
//
//	db, err := locations.OpenBadger(cfg.Locations.BadgerPath)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	resolver := locations.NewCachingResolver(store, db, locations.OptionsFromConfig(&cfg.Locations))
package locations
