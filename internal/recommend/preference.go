// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"
)

// buildPreference merges the user's explicit settings with the implicit
// signals in h. user may be nil.
func (e *Engine) buildPreference(ctx context.Context, user *UserProfile, h *InteractionHistory, log zerolog.Logger) PreferenceProfile {
	pc := e.cfg.Preference
	p := PreferenceProfile{
		PriceRange: PriceRange{Min: pc.DefaultMinPrice, Max: pc.DefaultMaxPrice},
	}

	if user != nil {
		if r, ok := user.PriceRange.Get(); ok && r.Min >= 0 && r.Max >= r.Min {
			p.PriceRange = r
			p.Explicit = true
		}
		if user.Gender != "" {
			p.Gender = Some(user.Gender)
		}
	}

	if mean, ok := h.MeanPrice.Get(); ok {
		widened := math.Max(pc.HistoryMultiplier*mean, p.PriceRange.Max)
		p.PriceRange.Max = math.Min(widened, pc.AbsoluteMaxPrice)
		// The cap can undercut an explicit minimum.
		if p.PriceRange.Min > p.PriceRange.Max {
			p.PriceRange.Min = p.PriceRange.Max
		}
	}

	if len(h.TopCities) > 0 {
		city := h.TopCities[0].City
		a := Anchor{City: city, Source: AnchorFromHistory}
		if pt, ok := h.Centroids[city]; ok {
			a.Point = Some(pt)
		}
		p.Anchor = Some(a)
	} else if user != nil && strings.TrimSpace(user.Affiliation) != "" && e.locations != nil {
		place, found, err := e.locations.Resolve(ctx, user.Affiliation)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("affiliation", user.Affiliation).Msg("Affiliation lookup failed, continuing without anchor")
		case found:
			p.Anchor = Some(Anchor{City: place.City, Point: Some(place.Point), Source: AnchorFromAffiliation})
		}
	}

	if len(h.TopCategories) > 0 {
		p.Category = Some(h.TopCategories[0])
	}

	if n := min(len(h.TopAmenities), pc.MaxAmenities); n > 0 {
		p.Amenities = append([]string(nil), h.TopAmenities[:n]...)
	}

	return p
}
