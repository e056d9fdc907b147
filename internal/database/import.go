// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/roomrank/internal/dataset"
	"github.com/tomtom215/roomrank/internal/logging"
)

// ImportDataset replaces every table with the contents of ds. Tables are
// cleared in their own transaction because DuckDB rejects re-inserting a
// primary key deleted earlier in the same transaction; the rows are then
// inserted in a single transaction.
func (db *DB) ImportDataset(ctx context.Context, ds *dataset.Dataset) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	if err := db.clearTables(ctx); err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import: begin: %w", err)
	}
	defer rollbackQuietly(tx)

	if err := importListings(ctx, tx, ds.Listings); err != nil {
		return err
	}

	seq := 0
	for i := range ds.Engagement {
		r := &ds.Engagement[i]
		day := *r
		day.Date = utcDay(r.Date)
		if err := addEngagement(ctx, tx, &day); err != nil {
			return fmt.Errorf("import: engagement %d: %w", i, err)
		}
		for _, v := range r.Visitors {
			seq++
			if v.UserID == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO visitor_events (listing_id, user_id, visited_at, source, seq) VALUES ($1, $2, $3, $4, $5)",
				r.ListingID, v.UserID, v.Timestamp.UTC(), v.Source, seq); err != nil {
				return fmt.Errorf("import: visitor: %w", err)
			}
		}
	}

	if err := importUsers(ctx, tx, ds.Users); err != nil {
		return err
	}
	if err := importPlaces(ctx, tx, ds.Places); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("import: commit: %w", err)
	}

	logging.Info().
		Int("listings", len(ds.Listings)).
		Int("engagement", len(ds.Engagement)).
		Int("users", len(ds.Users)).
		Int("places", len(ds.Places)).
		Msg("Dataset imported")
	return nil
}

func (db *DB) clearTables(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import: begin clear: %w", err)
	}
	defer rollbackQuietly(tx)

	for _, table := range tableNames {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("import: clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("import: commit clear: %w", err)
	}
	return nil
}

func importListings(ctx context.Context, tx *sql.Tx, listings []dataset.ListingRecord) error {
	for i := range listings {
		l := &listings[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO listings (id, title, price, city, lat, lon, category, gender, verified, rating,
				views, favorites, inquiries, visit_requests, active, availability, created_at, seq)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
			l.ID, l.Title, l.Price, l.City, nullFloat(l.Lat), nullFloat(l.Lon), l.Category, string(l.Gender),
			l.Verified, l.Rating, l.Views, l.Favorites, l.Inquiries, l.VisitRequests, l.Active,
			string(l.Availability), l.CreatedAt.UTC(), i); err != nil {
			return fmt.Errorf("import: listing %q: %w", l.ID, err)
		}
		for j, a := range l.Amenities {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO listing_amenities (listing_id, ordinal, amenity) VALUES ($1, $2, $3)",
				l.ID, j, a); err != nil {
				return fmt.Errorf("import: amenity %q: %w", l.ID, err)
			}
		}
	}
	return nil
}

func importUsers(ctx context.Context, tx *sql.Tx, users []dataset.UserRecord) error {
	for i := range users {
		u := &users[i]
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, affiliation, gender, price_min, price_max) VALUES ($1, $2, $3, $4, $5)",
			u.ID, u.Affiliation, string(u.Gender), nullFloat(u.PriceMin), nullFloat(u.PriceMax)); err != nil {
			return fmt.Errorf("import: user %q: %w", u.ID, err)
		}
		for j, lid := range u.SavedListingIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO saved_listings (user_id, ordinal, listing_id) VALUES ($1, $2, $3)",
				u.ID, j, lid); err != nil {
				return fmt.Errorf("import: saved listing %q: %w", u.ID, err)
			}
		}
	}
	return nil
}

func importPlaces(ctx context.Context, tx *sql.Tx, places []dataset.PlaceRecord) error {
	seen := make(map[string]struct{})
	for i := range places {
		p := &places[i]
		for _, key := range p.Keys() {
			// The first place claiming a name wins.
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO places (lookup_key, name, city, lat, lon) VALUES ($1, $2, $3, $4, $5)",
				key, p.Name, p.City, p.Lat, p.Lon); err != nil {
				return fmt.Errorf("import: place %q: %w", p.Name, err)
			}
		}
	}
	return nil
}

// Counts returns the number of listings, engagement rows and users.
func (db *DB) Counts(ctx context.Context) (listings, engagement, users int, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	for _, c := range []struct {
		table string
		dst   *int
	}{
		{"listings", &listings},
		{"engagement_daily", &engagement},
		{"users", &users},
	} {
		if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
			return 0, 0, 0, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	return listings, engagement, users, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
