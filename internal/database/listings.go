// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/tomtom215/roomrank/internal/database/query"
	"github.com/tomtom215/roomrank/internal/recommend"
)

const listingColumns = `id, title, price, city, lat, lon, category, gender, verified, rating,
	views, favorites, inquiries, visit_requests, active, availability, created_at`

// kmPerDegree is a lower bound on the length of one degree of latitude, so
// the bounding box always contains the haversine circle.
const kmPerDegree = 111.0

// FindListings implements recommend.ListingReader. Scalar filters and a
// bounding box are pushed down to SQL. Amenities, the exact haversine radius
// and ordering are applied in Go through ListingQuery.Matches and
// recommend.SortListings so results match the in-memory store.
func (db *DB) FindListings(ctx context.Context, q recommend.ListingQuery) ([]recommend.Listing, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	wb := listingFilter(&q)
	listings, err := db.queryListings(ctx, wb)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}

	out := listings[:0]
	for i := range listings {
		if q.Matches(&listings[i]) {
			out = append(out, listings[i])
		}
	}
	recommend.SortListings(out, q.SortBy, q.Near)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// GetListings implements recommend.ListingReader.
func (db *DB) GetListings(ctx context.Context, ids []string) ([]recommend.Listing, error) {
	if len(ids) == 0 {
		return []recommend.Listing{}, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	listings, err := db.queryListings(ctx, query.NewWhereBuilder().AddIn("id", dedupe(ids)))
	if err != nil {
		return nil, fmt.Errorf("get listings: %w", err)
	}
	return listings, nil
}

// listingFilter translates the pushable part of q.
func listingFilter(q *recommend.ListingQuery) *query.WhereBuilder {
	wb := query.NewWhereBuilder().
		AddClause("active = ?", true).
		AddClause("availability = ?", string(recommend.AvailabilityAvailable))
	if q.RequireVerified {
		wb.AddClause("verified = ?", true)
	}
	if lo, ok := q.MinPrice.Get(); ok {
		wb.AddClause("price >= ?", lo)
	}
	if hi, ok := q.MaxPrice.Get(); ok {
		wb.AddClause("price <= ?", hi)
	}
	wb.AddEqualFold("city", q.City)
	wb.AddEqualFold("category", q.Category)
	if g, ok := q.Gender.Get(); ok {
		wb.AddClause("gender IN (?, ?)", string(recommend.GenderAny), string(g))
	}

	if near, ok := q.Near.Get(); ok && q.RadiusKm > 0 {
		dLat := q.RadiusKm / kmPerDegree
		dLon := 180.0 // poles and very large radii: longitude is unconstrained
		if c := math.Cos(near.Lat * math.Pi / 180); c > 0.01 {
			dLon = math.Min(180, dLat/c)
		}
		box := "(lat BETWEEN ? AND ? AND lon BETWEEN ? AND ?)"
		args := []any{near.Lat - dLat, near.Lat + dLat, near.Lon - dLon, near.Lon + dLon}
		if near.Lon-dLon < -180 || near.Lon+dLon > 180 {
			// The box crosses the antimeridian; leave longitude to the exact check.
			box = "(lat BETWEEN ? AND ?)"
			args = args[:2]
		}
		if q.StrictGeo {
			wb.AddClause(box, args...)
		} else {
			wb.AddClause("(lat IS NULL OR "+box+")", args...)
		}
	}
	return wb
}

// queryListings loads the listings matching wb with their amenities, in
// dataset order.
func (db *DB) queryListings(ctx context.Context, wb *query.WhereBuilder) ([]recommend.Listing, error) {
	where, args := wb.Build()

	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE "+where+" ORDER BY seq, id", args...)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer closeWithLog(rows, "listing rows")

	var listings []recommend.Listing
	index := make(map[string]int)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		index[l.ID] = len(listings)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	if len(listings) == 0 {
		return []recommend.Listing{}, nil
	}

	amenityRows, err := db.conn.QueryContext(ctx,
		"SELECT listing_id, amenity FROM listing_amenities WHERE listing_id IN (SELECT id FROM listings WHERE "+
			where+") ORDER BY listing_id, ordinal", args...)
	if err != nil {
		return nil, fmt.Errorf("query amenities: %w", err)
	}
	defer closeWithLog(amenityRows, "amenity rows")

	for amenityRows.Next() {
		var id, amenity string
		if err := amenityRows.Scan(&id, &amenity); err != nil {
			return nil, fmt.Errorf("scan amenity: %w", err)
		}
		if i, ok := index[id]; ok {
			listings[i].Amenities = append(listings[i].Amenities, amenity)
		}
	}
	if err := amenityRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate amenities: %w", err)
	}
	return listings, nil
}

func scanListing(rows *sql.Rows) (recommend.Listing, error) {
	var (
		l            recommend.Listing
		lat, lon     sql.NullFloat64
		gender       string
		availability string
	)
	err := rows.Scan(&l.ID, &l.Title, &l.Price, &l.City, &lat, &lon, &l.Category, &gender,
		&l.Verified, &l.Rating, &l.Views, &l.Favorites, &l.Inquiries, &l.VisitRequests,
		&l.Active, &availability, &l.CreatedAt)
	if err != nil {
		return l, fmt.Errorf("scan listing: %w", err)
	}
	l.Gender = recommend.Gender(gender)
	l.Availability = recommend.Availability(availability)
	l.CreatedAt = l.CreatedAt.UTC()
	if lat.Valid && lon.Valid {
		l.Location = recommend.Some(recommend.GeoPoint{Lat: lat.Float64, Lon: lon.Float64})
	}
	return l, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
