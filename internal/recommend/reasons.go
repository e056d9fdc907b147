// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"fmt"
	"time"
)

// Fixed reason strings.
const (
	ReasonExcellent      = "Excellent match for your preferences"
	ReasonGood           = "Good match for your preferences"
	ReasonDecent         = "Decent match with room for improvement"
	ReasonVeryClose      = "Very close to your preferred location"
	ReasonConvenient     = "Conveniently located"
	ReasonInBudget       = "Within your budget range"
	ReasonHighlyRated    = "Highly rated by other students"
	ReasonVerified       = "Verified listing"
	ReasonPopular        = "Popular with other students"
	ReasonBeginner       = "Popular and highly rated for beginners"
	reasonAmenityMatches = "Has %d of your preferred amenities"
)

// trendingReason names the trend window, in days when it is a whole number of
// them.
func trendingReason(window time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case window == day:
		return "Trending over the last day"
	case window%day == 0:
		return fmt.Sprintf("Trending over the last %d days", window/day)
	default:
		return "Trending over the last " + window.String()
	}
}

// matchReasons explains a personalized score. The list never affects ordering.
func matchReasons(rc ReasonConfig, sc ScoringConfig, score int, c *ComponentScores, l *Listing, p *PreferenceProfile) []string {
	reasons := make([]string, 0, 5)

	switch {
	case score >= rc.Excellent:
		reasons = append(reasons, ReasonExcellent)
	case score >= rc.Good:
		reasons = append(reasons, ReasonGood)
	case score >= rc.Decent:
		reasons = append(reasons, ReasonDecent)
	}

	if km, ok := c.DistanceKm.Get(); ok {
		switch {
		case km < rc.VeryCloseKm:
			reasons = append(reasons, ReasonVeryClose)
		case km < rc.ConvenientKm:
			reasons = append(reasons, ReasonConvenient)
		}
	}

	if p.PriceRange.Contains(l.Price) {
		reasons = append(reasons, ReasonInBudget)
	}

	if c.AmenityMatches > 0 {
		reasons = append(reasons, fmt.Sprintf(reasonAmenityMatches, c.AmenityMatches))
	}

	if l.Rating >= sc.RatingThreshold {
		reasons = append(reasons, ReasonHighlyRated)
	}

	if l.Verified {
		reasons = append(reasons, ReasonVerified)
	}

	return reasons
}
