// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/roomrank/internal/dataset"
	"github.com/tomtom215/roomrank/internal/recommend"
)

// GetUser implements recommend.UserReader.
func (db *DB) GetUser(ctx context.Context, id string) (*recommend.UserProfile, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var (
		u      recommend.UserProfile
		gender string
		lo, hi sql.NullFloat64
	)
	err := db.conn.QueryRowContext(ctx,
		"SELECT id, affiliation, gender, price_min, price_max FROM users WHERE id = $1", id).
		Scan(&u.ID, &u.Affiliation, &gender, &lo, &hi)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", id, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Gender = recommend.Gender(gender)
	if lo.Valid && hi.Valid {
		u.PriceRange = recommend.Some(recommend.PriceRange{Min: lo.Float64, Max: hi.Float64})
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT listing_id FROM saved_listings WHERE user_id = $1 ORDER BY ordinal", id)
	if err != nil {
		return nil, fmt.Errorf("get saved listings: %w", err)
	}
	defer closeWithLog(rows, "saved listing rows")
	for rows.Next() {
		var lid string
		if err := rows.Scan(&lid); err != nil {
			return nil, fmt.Errorf("scan saved listing: %w", err)
		}
		u.SavedListingIDs = append(u.SavedListingIDs, lid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved listings: %w", err)
	}
	return &u, nil
}

// Resolve implements recommend.LocationResolver.
func (db *DB) Resolve(ctx context.Context, name string) (recommend.Place, bool, error) {
	key := dataset.NormalizeName(name)
	if key == "" {
		return recommend.Place{}, false, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var p recommend.Place
	err := db.conn.QueryRowContext(ctx,
		"SELECT name, city, lat, lon FROM places WHERE lookup_key = $1", key).
		Scan(&p.Name, &p.City, &p.Point.Lat, &p.Point.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.Place{}, false, nil
	}
	if err != nil {
		return recommend.Place{}, false, fmt.Errorf("resolve place: %w", err)
	}
	return p, true, nil
}
