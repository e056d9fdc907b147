// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

// Package query provides SQL query building utilities for the database package.
//
// The WhereBuilder composes parameterized WHERE clauses. Conditions are
// written with "?" markers and numbered as PostgreSQL-style $n placeholders
// on Build, which both DuckDB and lib/pq accept:
//
//	wb := query.NewWhereBuilder()
//	wb.AddClause("price >= ?", 5000.0)
//	wb.AddEqualFold("category", "PG")
//	whereClause, args := wb.Build()
//	// Result: "price >= $1 AND LOWER(TRIM(category)) = LOWER($2)"
//	// Args: [5000, "PG"]
//
// Column names are never taken from user input; only values are bound.
package query
