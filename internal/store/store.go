// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

// Package store is an in-memory implementation of the engine's reader
// interfaces and the engagement sink, seeded from a dataset snapshot.
//
// Radius queries are pre-filtered through a spatial hash grid. Every other
// filter is evaluated with ListingQuery.Matches so results are identical to
// the SQL store. Replace swaps the whole snapshot atomically for reloads.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/roomrank/internal/cache"
	"github.com/tomtom215/roomrank/internal/dataset"
	"github.com/tomtom215/roomrank/internal/recommend"
)

// gridCellKm is the spatial grid cell size. Candidate radii are 10-20 km.
const gridCellKm = 10

// Compile-time interface checks.
var (
	_ recommend.ListingReader    = (*Store)(nil)
	_ recommend.EngagementReader = (*Store)(nil)
	_ recommend.UserReader       = (*Store)(nil)
	_ recommend.LocationResolver = (*Store)(nil)
	_ recommend.EngagementWriter = (*Store)(nil)
)

type engagementKey struct {
	listingID string
	day       time.Time
}

// snapshot is the indexed form of a dataset.
type snapshot struct {
	listings map[string]*recommend.Listing
	order    []string // dataset order, used when no sort is requested
	grid     *cache.SpatialHashGrid

	engagement []*recommend.EngagementRecord
	byDay      map[engagementKey]*recommend.EngagementRecord

	users  map[string]*recommend.UserProfile
	places map[string]recommend.Place

	// visited maps a user to listing ids in first-visit order.
	visited map[string][]string
}

// Store is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	snap *snapshot
}

// New builds a store from ds. A nil dataset yields an empty store.
func New(ds *dataset.Dataset) *Store {
	return &Store{snap: index(ds)}
}

// Replace swaps in a new snapshot.
func (s *Store) Replace(ds *dataset.Dataset) {
	next := index(ds)
	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
}

// Ping reports readiness. The in-memory store is always ready.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Counts returns the number of listings, engagement records and users.
func (s *Store) Counts() (listings, engagement, users int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snap.listings), len(s.snap.engagement), len(s.snap.users)
}

func index(ds *dataset.Dataset) *snapshot {
	snap := &snapshot{
		listings: make(map[string]*recommend.Listing),
		grid:     cache.NewSpatialHashGrid(gridCellKm),
		byDay:    make(map[engagementKey]*recommend.EngagementRecord),
		users:    make(map[string]*recommend.UserProfile),
		places:   make(map[string]recommend.Place),
		visited:  make(map[string][]string),
	}
	if ds == nil {
		return snap
	}

	for i := range ds.Listings {
		l := ds.Listings[i].Listing()
		snap.listings[l.ID] = &l
		snap.order = append(snap.order, l.ID)
		if p, ok := l.Location.Get(); ok {
			snap.grid.Insert(l.ID, p.Lat, p.Lon)
		}
	}

	for i := range ds.Engagement {
		r := ds.Engagement[i]
		r.Visitors = append([]recommend.VisitorEvent(nil), r.Visitors...)
		key := engagementKey{listingID: r.ListingID, day: r.Date}
		if existing, ok := snap.byDay[key]; ok {
			mergeRecord(existing, &r)
			continue
		}
		rec := &r
		snap.byDay[key] = rec
		snap.engagement = append(snap.engagement, rec)
	}
	snap.rebuildVisited()

	for i := range ds.Users {
		snap.users[ds.Users[i].ID] = ds.Users[i].Profile()
	}
	for i := range ds.Places {
		place := ds.Places[i].Place()
		for _, k := range ds.Places[i].Keys() {
			if _, taken := snap.places[k]; !taken {
				snap.places[k] = place
			}
		}
	}
	return snap
}

func mergeRecord(dst, src *recommend.EngagementRecord) {
	dst.Views += src.Views
	dst.UniqueViews += src.UniqueViews
	dst.Inquiries += src.Inquiries
	dst.Favorites += src.Favorites
	dst.VisitRequests += src.VisitRequests
	dst.Clicks += src.Clicks
	dst.Visitors = append(dst.Visitors, src.Visitors...)
}

// rebuildVisited derives first-visit order from visitor timestamps. Ties
// keep record order.
func (snap *snapshot) rebuildVisited() {
	type firstVisit struct {
		at  time.Time
		seq int
	}
	first := make(map[string]map[string]firstVisit)
	seq := 0
	for _, rec := range snap.engagement {
		for _, v := range rec.Visitors {
			seq++
			if v.UserID == "" {
				continue
			}
			m := first[v.UserID]
			if m == nil {
				m = make(map[string]firstVisit)
				first[v.UserID] = m
			}
			if fv, ok := m[rec.ListingID]; !ok || v.Timestamp.Before(fv.at) {
				m[rec.ListingID] = firstVisit{at: v.Timestamp, seq: seq}
			}
		}
	}

	snap.visited = make(map[string][]string, len(first))
	for user, m := range first {
		ids := make([]string, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		sortByFirstVisit(ids, func(id string) (time.Time, int) {
			fv := m[id]
			return fv.at, fv.seq
		})
		snap.visited[user] = ids
	}
}

// FindListings implements recommend.ListingReader.
func (s *Store) FindListings(ctx context.Context, q recommend.ListingQuery) ([]recommend.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.snap.order
	near, hasNear := q.Near.Get()
	if hasNear && q.RadiusKm > 0 && q.StrictGeo {
		// Unlocated listings are excluded, so the grid covers every match.
		ids = s.snap.grid.QueryNearby(near.Lat, near.Lon, q.RadiusKm)
	}

	out := make([]recommend.Listing, 0, min(len(ids), 64))
	for _, id := range ids {
		l, ok := s.snap.listings[id]
		if !ok || !q.Matches(l) {
			continue
		}
		out = append(out, cloneListing(l))
	}

	recommend.SortListings(out, q.SortBy, q.Near)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// GetListings implements recommend.ListingReader.
func (s *Store) GetListings(ctx context.Context, ids []string) ([]recommend.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recommend.Listing, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if l, ok := s.snap.listings[id]; ok {
			out = append(out, cloneListing(l))
		}
	}
	return out, nil
}

// EngagementSince implements recommend.EngagementReader.
func (s *Store) EngagementSince(ctx context.Context, since time.Time, listingIDs []string) ([]recommend.EngagementRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var only map[string]struct{}
	if listingIDs != nil {
		only = make(map[string]struct{}, len(listingIDs))
		for _, id := range listingIDs {
			only[id] = struct{}{}
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []recommend.EngagementRecord
	for _, rec := range s.snap.engagement {
		if rec.Date.Before(since) {
			continue
		}
		if only != nil {
			if _, ok := only[rec.ListingID]; !ok {
				continue
			}
		}
		r := *rec
		r.Visitors = append([]recommend.VisitorEvent(nil), rec.Visitors...)
		out = append(out, r)
	}
	return out, nil
}

// ListingsVisitedBy implements recommend.EngagementReader.
func (s *Store) ListingsVisitedBy(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.snap.visited[userID]...), nil
}

// GetUser implements recommend.UserReader.
func (s *Store) GetUser(ctx context.Context, id string) (*recommend.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.snap.users[id]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, recommend.ErrNotFound)
	}
	cp := *u
	cp.SavedListingIDs = append([]string(nil), u.SavedListingIDs...)
	return &cp, nil
}

// Resolve implements recommend.LocationResolver. Names match the place name
// or any alias, ignoring case and repeated whitespace.
func (s *Store) Resolve(ctx context.Context, name string) (recommend.Place, bool, error) {
	if err := ctx.Err(); err != nil {
		return recommend.Place{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.snap.places[dataset.NormalizeName(name)]
	return p, ok, nil
}

// ApplyEvent implements recommend.EngagementWriter.
func (s *Store) ApplyEvent(ctx context.Context, e recommend.EngagementEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("apply event: unknown kind %q", e.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.snap.listings[e.ListingID]
	if !ok {
		return fmt.Errorf("listing %q: %w", e.ListingID, recommend.ErrNotFound)
	}

	ts := e.Timestamp.UTC()
	y, m, d := ts.Date()
	key := engagementKey{listingID: e.ListingID, day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
	rec, ok := s.snap.byDay[key]
	if !ok {
		rec = &recommend.EngagementRecord{ListingID: key.listingID, Date: key.day}
		s.snap.byDay[key] = rec
		s.snap.engagement = append(s.snap.engagement, rec)
	}

	switch e.Kind {
	case recommend.EngagementView:
		rec.Views++
		l.Views++
		if e.UserID == "" {
			rec.UniqueViews++
		} else {
			rec.Visitors = append(rec.Visitors, recommend.VisitorEvent{UserID: e.UserID, Timestamp: ts, Source: e.Source})
			s.snap.recordVisit(e.UserID, e.ListingID)
		}
	case recommend.EngagementInquiry:
		rec.Inquiries++
		l.Inquiries++
	case recommend.EngagementFavorite:
		rec.Favorites++
		l.Favorites++
	case recommend.EngagementVisitRequest:
		rec.VisitRequests++
		l.VisitRequests++
	}
	return nil
}

func (snap *snapshot) recordVisit(userID, listingID string) {
	for _, id := range snap.visited[userID] {
		if id == listingID {
			return
		}
	}
	snap.visited[userID] = append(snap.visited[userID], listingID)
}

func cloneListing(l *recommend.Listing) recommend.Listing {
	cp := *l
	cp.Amenities = append([]string(nil), l.Amenities...)
	return cp
}
