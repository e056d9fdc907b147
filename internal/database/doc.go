// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

/*
Package database provides the SQL store for listings, engagement, users and
affiliation places.

The same code runs on DuckDB (embedded, the default) and PostgreSQL via
lib/pq. Queries use $n placeholders and portable DDL only.

# Reads

DB implements the engine's ListingReader, EngagementReader, UserReader and
LocationResolver. FindListings pushes price, city, category, gender and a
bounding box into SQL, then applies recommend.ListingQuery.Matches for the
exact haversine radius and amenity filters, and orders the result with
recommend.SortListings.

# Writes

ApplyEvent records a tracked engagement event. ImportDataset replaces the
whole store with a dataset snapshot.

# Usage Example

	db, err := database.New(&config.DatabaseConfig{Driver: "duckdb", Path: "/data/roomrank.duckdb"})
	if err != nil {
	    return err
	}
	defer db.Close()
	if err := db.ImportDataset(ctx, ds); err != nil {
	    return err
	}
*/
package database
