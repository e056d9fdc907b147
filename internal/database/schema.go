// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

/*
schema.go - Database Schema Management

Tables:
  - listings: one row per listing, nullable lat/lon
  - listing_amenities: amenity tags in listing order
  - engagement_daily: one row per listing and UTC day
  - visitor_events: attributed visits, the source of ListingsVisitedBy
  - users: user profiles with an optional explicit budget
  - saved_listings: bookmarks in save order
  - places: affiliation lookup, one row per normalized name or alias

The DDL sticks to types and syntax shared by DuckDB and PostgreSQL.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// tableNames lists every table in dependency order.
var tableNames = []string{
	"listings",
	"listing_amenities",
	"engagement_daily",
	"visitor_events",
	"users",
	"saved_listings",
	"places",
}

// createTables creates the tables and indexes
func (db *DB) createTables(ctx context.Context) error {
	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS listings (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL,
			city TEXT NOT NULL DEFAULT '',
			lat DOUBLE PRECISION,
			lon DOUBLE PRECISION,
			category TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT 'any',
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			views INTEGER NOT NULL DEFAULT 0,
			favorites INTEGER NOT NULL DEFAULT 0,
			inquiries INTEGER NOT NULL DEFAULT 0,
			visit_requests INTEGER NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			availability TEXT NOT NULL DEFAULT 'available',
			created_at TIMESTAMP NOT NULL,
			seq INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS listing_amenities (
			listing_id TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			amenity TEXT NOT NULL,
			PRIMARY KEY (listing_id, ordinal)
		)`,

		`CREATE TABLE IF NOT EXISTS engagement_daily (
			listing_id TEXT NOT NULL,
			event_date DATE NOT NULL,
			views INTEGER NOT NULL DEFAULT 0,
			unique_views INTEGER NOT NULL DEFAULT 0,
			inquiries INTEGER NOT NULL DEFAULT 0,
			favorites INTEGER NOT NULL DEFAULT 0,
			visit_requests INTEGER NOT NULL DEFAULT 0,
			clicks INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (listing_id, event_date)
		)`,

		`CREATE TABLE IF NOT EXISTS visitor_events (
			listing_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			visited_at TIMESTAMP NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			seq INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			affiliation TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			price_min DOUBLE PRECISION,
			price_max DOUBLE PRECISION
		)`,

		`CREATE TABLE IF NOT EXISTS saved_listings (
			user_id TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			listing_id TEXT NOT NULL,
			PRIMARY KEY (user_id, ordinal)
		)`,

		`CREATE TABLE IF NOT EXISTS places (
			lookup_key TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			city TEXT NOT NULL DEFAULT '',
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(city)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price)`,
		`CREATE INDEX IF NOT EXISTS idx_engagement_date ON engagement_daily(event_date)`,
		`CREATE INDEX IF NOT EXISTS idx_visitor_user ON visitor_events(user_id)`,
	}
}
