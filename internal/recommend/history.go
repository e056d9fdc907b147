// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"context"
	"fmt"
	"strings"
)

// interactionIDs returns the union of saved and visited ids in first-seen
// order. Saved ids come first.
func interactionIDs(saved, visited []string) []string {
	seen := make(map[string]struct{}, len(saved)+len(visited))
	out := make([]string, 0, len(saved)+len(visited))
	for _, list := range [][]string{saved, visited} {
		for _, id := range list {
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// buildHistory summarizes the listings behind ids. A cold history is returned
// for no ids without touching the reader.
func (e *Engine) buildHistory(ctx context.Context, ids []string) (InteractionHistory, error) {
	if len(ids) == 0 {
		return InteractionHistory{}, nil
	}

	fetched, err := e.listings.GetListings(ctx, ids)
	if err != nil {
		return InteractionHistory{}, fmt.Errorf("history: get listings: %w", err)
	}

	// Walk in interaction order so frequency ties resolve by first sighting,
	// whatever order the reader returned.
	byID := make(map[string]*Listing, len(fetched))
	for i := range fetched {
		byID[fetched[i].ID] = &fetched[i]
	}

	h := InteractionHistory{
		ListingIDs: ids,
		Centroids:  make(map[string]GeoPoint),
	}

	var (
		total     float64
		priced    int
		cities    = newCounter()
		cats      = newCounter()
		amenities = newCounter()
		points    = make(map[string][]GeoPoint)
	)
	for _, id := range ids {
		l, ok := byID[id]
		if !ok {
			continue
		}
		total += l.Price
		priced++

		if l.City != "" {
			cities.add(l.City)
			if p, located := l.Location.Get(); located {
				key := strings.ToLower(l.City)
				points[key] = append(points[key], p)
			}
		}
		if l.Category != "" {
			cats.add(l.Category)
		}
		for _, a := range l.Amenities {
			amenities.add(a)
		}
	}

	if priced > 0 {
		h.MeanPrice = Some(total / float64(priced))
	}
	for _, c := range cities.top(e.cfg.History.TopCities) {
		h.TopCities = append(h.TopCities, CityCount{City: c.key, Count: c.n})
		if ctr, ok := Centroid(points[strings.ToLower(c.key)]); ok {
			h.Centroids[c.key] = ctr
		}
	}
	for _, c := range cats.top(e.cfg.History.TopCategories) {
		h.TopCategories = append(h.TopCategories, c.key)
	}
	for _, c := range amenities.top(e.cfg.History.TopAmenities) {
		h.TopAmenities = append(h.TopAmenities, c.key)
	}
	return h, nil
}

type counted struct {
	key   string
	n     int
	first int
}

// counter is a case-insensitive frequency table that remembers the first
// spelling and position of each key.
type counter struct {
	entries []*counted
	index   map[string]*counted
}

func newCounter() *counter {
	return &counter{index: make(map[string]*counted)}
}

func (c *counter) add(key string) {
	norm := strings.ToLower(strings.TrimSpace(key))
	if norm == "" {
		return
	}
	if e, ok := c.index[norm]; ok {
		e.n++
		return
	}
	e := &counted{key: strings.TrimSpace(key), n: 1, first: len(c.entries)}
	c.entries = append(c.entries, e)
	c.index[norm] = e
}

// top returns the n most frequent keys, ties broken by first sighting.
func (c *counter) top(n int) []counted {
	out := make([]counted, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	// Insertion sort: the tables hold a few dozen keys at most.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func less(a, b counted) bool {
	if a.n != b.n {
		return a.n > b.n
	}
	return a.first < b.first
}
