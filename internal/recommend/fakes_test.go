// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// fakeStore implements every reader interface over in-memory slices.
type fakeStore struct {
	listings   []Listing
	engagement []EngagementRecord
	users      map[string]*UserProfile
	places     map[string]Place

	findErr    error
	getErr     error
	engErr     error
	visitedErr error
	userErr    error
	resolveErr error
	panicOn    string

	findCalls    atomic.Int32
	resolveCalls atomic.Int32

	mu      sync.Mutex
	queries []ListingQuery
}

func (f *fakeStore) FindListings(_ context.Context, q ListingQuery) ([]Listing, error) {
	f.findCalls.Add(1)
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.panicOn == "find" {
		panic("boom")
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []Listing
	for i := range f.listings {
		if q.Matches(&f.listings[i]) {
			out = append(out, f.listings[i])
		}
	}
	SortListings(out, q.SortBy, q.Near)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeStore) GetListings(_ context.Context, ids []string) ([]Listing, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Listing
	// Reverse order so callers cannot rely on request order.
	for i := len(f.listings) - 1; i >= 0; i-- {
		if want[f.listings[i].ID] {
			out = append(out, f.listings[i])
		}
	}
	return out, nil
}

func (f *fakeStore) EngagementSince(_ context.Context, since time.Time, ids []string) ([]EngagementRecord, error) {
	if f.engErr != nil {
		return nil, f.engErr
	}
	var out []EngagementRecord
	for _, r := range f.engagement {
		if r.Date.Before(since) {
			continue
		}
		if ids != nil && !contains(ids, r.ListingID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) ListingsVisitedBy(_ context.Context, userID string) ([]string, error) {
	if f.panicOn == "visited" {
		panic("boom")
	}
	if f.visitedErr != nil {
		return nil, f.visitedErr
	}
	var out []string
	for _, r := range f.engagement {
		for _, v := range r.Visitors {
			if v.UserID == userID && !contains(out, r.ListingID) {
				out = append(out, r.ListingID)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*UserProfile, error) {
	if f.panicOn == "user" {
		panic("boom")
	}
	if f.userErr != nil {
		return nil, f.userErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) Resolve(_ context.Context, name string) (Place, bool, error) {
	f.resolveCalls.Add(1)
	if f.resolveErr != nil {
		return Place{}, false, f.resolveErr
	}
	p, ok := f.places[strings.ToLower(name)]
	return p, ok, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// listing returns an eligible listing with sensible defaults.
func listing(id string, price float64, city string) Listing {
	return Listing{
		ID:           id,
		Title:        "Room " + id,
		Price:        price,
		City:         city,
		Category:     "PG",
		Gender:       GenderAny,
		Active:       true,
		Availability: AvailabilityAvailable,
		CreatedAt:    testNow.Add(-48 * time.Hour),
	}
}

func at(lat, lon float64) Optional[GeoPoint] {
	return Some(GeoPoint{Lat: lat, Lon: lon})
}

func newTestEngine(t interface {
	Helper()
	Fatalf(string, ...any)
}, cfg *Config, fs *fakeStore) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, Dependencies{
		Listings:   fs,
		Engagement: fs,
		Users:      fs,
		Locations:  fs,
		Clock:      fixedClock,
	}, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}
