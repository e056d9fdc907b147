// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"fmt"
	"strings"
)

// Strategy names.
const (
	StrategyAsRequested   = "as_requested"
	StrategyDropCity      = "drop_city"
	StrategyDropRadius    = "drop_radius"
	StrategyDropAmenities = "drop_amenities"
)

// Strategy is one step of a FallbackChain. Widen derives the next query from
// the previous one, or reports false when the step changes nothing.
type Strategy struct {
	Name  string
	Widen func(q ListingQuery) (ListingQuery, bool)
}

// FallbackChain is the ordered list of strategies the retriever tries until
// one yields candidates. Steps are cumulative.
type FallbackChain []Strategy

// Names returns the strategy names in order.
func (c FallbackChain) Names() []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.Name
	}
	return names
}

var strategies = map[string]Strategy{
	StrategyDropCity: {
		Name: StrategyDropCity,
		Widen: func(q ListingQuery) (ListingQuery, bool) {
			if q.City == "" {
				return q, false
			}
			q.City = ""
			return q, true
		},
	},
	StrategyDropRadius: {
		Name: StrategyDropRadius,
		Widen: func(q ListingQuery) (ListingQuery, bool) {
			if !q.Near.IsSet() || q.RadiusKm <= 0 {
				return q, false
			}
			// Keep Near so results stay ordered by proximity.
			q.RadiusKm = 0
			return q, true
		},
	},
	StrategyDropAmenities: {
		Name: StrategyDropAmenities,
		Widen: func(q ListingQuery) (ListingQuery, bool) {
			if len(q.AnyAmenities) == 0 && len(q.AllAmenities) == 0 {
				return q, false
			}
			q.AnyAmenities, q.AllAmenities = nil, nil
			return q, true
		},
	},
}

var asRequested = Strategy{
	Name:  StrategyAsRequested,
	Widen: func(q ListingQuery) (ListingQuery, bool) { return q, true },
}

// StrategyNames returns the names accepted by BuildFallbackChain.
func StrategyNames() []string {
	return []string{StrategyDropCity, StrategyDropRadius, StrategyDropAmenities}
}

// BuildFallbackChain returns a chain that starts with the query as requested
// followed by the named widening strategies.
func BuildFallbackChain(names []string) (FallbackChain, error) {
	chain := FallbackChain{asRequested}
	seen := make(map[string]bool, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == StrategyAsRequested {
			continue
		}
		s, ok := strategies[name]
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q (valid: %s)", raw, strings.Join(StrategyNames(), ", "))
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate strategy %q", name)
		}
		seen[name] = true
		chain = append(chain, s)
	}
	return chain, nil
}
