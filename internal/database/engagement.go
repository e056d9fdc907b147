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
	"time"

	"github.com/tomtom215/roomrank/internal/database/query"
	"github.com/tomtom215/roomrank/internal/recommend"
)

// EngagementSince implements recommend.EngagementReader. Records carry the
// daily counters only; visitor detail is served by ListingsVisitedBy.
func (db *DB) EngagementSince(ctx context.Context, since time.Time, listingIDs []string) ([]recommend.EngagementRecord, error) {
	if listingIDs != nil && len(listingIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	wb := query.NewWhereBuilder().AddClause("CAST(event_date AS TIMESTAMP) >= CAST(? AS TIMESTAMP)", since.UTC())
	if listingIDs != nil {
		wb.AddIn("listing_id", dedupe(listingIDs))
	}
	where, args := wb.Build()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT listing_id, event_date, views, unique_views, inquiries, favorites, visit_requests, clicks
		FROM engagement_daily
		WHERE `+where+`
		ORDER BY event_date, listing_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query engagement: %w", err)
	}
	defer closeWithLog(rows, "engagement rows")

	var out []recommend.EngagementRecord
	for rows.Next() {
		var r recommend.EngagementRecord
		if err := rows.Scan(&r.ListingID, &r.Date, &r.Views, &r.UniqueViews, &r.Inquiries,
			&r.Favorites, &r.VisitRequests, &r.Clicks); err != nil {
			return nil, fmt.Errorf("scan engagement: %w", err)
		}
		r.Date = utcDay(r.Date)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate engagement: %w", err)
	}
	return out, nil
}

// ListingsVisitedBy implements recommend.EngagementReader.
func (db *DB) ListingsVisitedBy(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT listing_id
		FROM visitor_events
		WHERE user_id = $1
		GROUP BY listing_id
		ORDER BY MIN(visited_at), MIN(seq), listing_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer closeWithLog(rows, "visit rows")

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visits: %w", err)
	}
	return ids, nil
}

// ApplyEvent implements recommend.EngagementWriter.
func (db *DB) ApplyEvent(ctx context.Context, e recommend.EngagementEvent) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("apply event: unknown kind %q", e.Kind)
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply event: begin: %w", err)
	}
	defer rollbackQuietly(tx)

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM listings WHERE id = $1", e.ListingID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("listing %q: %w", e.ListingID, recommend.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("apply event: lookup listing: %w", err)
	}

	ts := e.Timestamp.UTC()
	var delta recommend.EngagementRecord
	counter := ""
	switch e.Kind {
	case recommend.EngagementView:
		delta.Views = 1
		if e.UserID == "" {
			delta.UniqueViews = 1
		}
		counter = "views"
	case recommend.EngagementInquiry:
		delta.Inquiries = 1
		counter = "inquiries"
	case recommend.EngagementFavorite:
		delta.Favorites = 1
		counter = "favorites"
	case recommend.EngagementVisitRequest:
		delta.VisitRequests = 1
		counter = "visit_requests"
	}
	delta.ListingID = e.ListingID
	delta.Date = utcDay(ts)

	if err := addEngagement(ctx, tx, &delta); err != nil {
		return fmt.Errorf("apply event: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE listings SET "+counter+" = "+counter+" + 1 WHERE id = $1", e.ListingID); err != nil {
		return fmt.Errorf("apply event: update listing: %w", err)
	}
	if e.Kind == recommend.EngagementView && e.UserID != "" {
		if err := insertVisitor(ctx, tx, e.ListingID, recommend.VisitorEvent{UserID: e.UserID, Timestamp: ts, Source: e.Source}); err != nil {
			return fmt.Errorf("apply event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply event: commit: %w", err)
	}
	return nil
}

// addEngagement adds the counters of r to the row for its listing and day,
// creating the row when missing. Callers hold writeMu.
func addEngagement(ctx context.Context, tx *sql.Tx, r *recommend.EngagementRecord) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE engagement_daily SET
			views = views + $3,
			unique_views = unique_views + $4,
			inquiries = inquiries + $5,
			favorites = favorites + $6,
			visit_requests = visit_requests + $7,
			clicks = clicks + $8
		WHERE listing_id = $1 AND event_date = $2`,
		r.ListingID, r.Date, r.Views, r.UniqueViews, r.Inquiries, r.Favorites, r.VisitRequests, r.Clicks)
	if err != nil {
		return fmt.Errorf("update engagement: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO engagement_daily
			(listing_id, event_date, views, unique_views, inquiries, favorites, visit_requests, clicks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ListingID, r.Date, r.Views, r.UniqueViews, r.Inquiries, r.Favorites, r.VisitRequests, r.Clicks)
	if err != nil {
		return fmt.Errorf("insert engagement: %w", err)
	}
	return nil
}

// insertVisitor appends an attributed visit with the next sequence number.
func insertVisitor(ctx context.Context, tx *sql.Tx, listingID string, v recommend.VisitorEvent) error {
	var seq int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM visitor_events").Scan(&seq); err != nil {
		return fmt.Errorf("next visitor seq: %w", err)
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO visitor_events (listing_id, user_id, visited_at, source, seq) VALUES ($1, $2, $3, $4, $5)",
		listingID, v.UserID, v.Timestamp.UTC(), v.Source, seq)
	if err != nil {
		return fmt.Errorf("insert visitor: %w", err)
	}
	return nil
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
