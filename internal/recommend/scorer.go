// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import "math"

// ComponentScores holds each similarity component on a 0-100 scale. An unset
// component did not apply to the candidate and is excluded from the mean.
type ComponentScores struct {
	Location   Optional[float64]
	Price      Optional[float64]
	Amenity    Optional[float64]
	Trust      float64
	Popularity float64

	// DistanceKm is set together with Location.
	DistanceKm Optional[float64]

	// AmenityMatches counts preferred amenities the listing has.
	AmenityMatches int
}

// Scorer computes similarity scores under a fixed configuration. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	weights ScoringWeights
	sc      ScoringConfig
}

// NewScorer returns a Scorer for cfg.
func NewScorer(cfg *Config) *Scorer {
	return &Scorer{weights: cfg.Weights, sc: cfg.Scoring}
}

// Components computes the individual component scores of l against p.
func (s *Scorer) Components(l *Listing, p *PreferenceProfile) ComponentScores {
	var c ComponentScores

	if a, ok := p.Anchor.Get(); ok {
		anchor, hasAnchor := a.Point.Get()
		at, located := l.Location.Get()
		if hasAnchor && located {
			km := DistanceKm(anchor, at)
			c.DistanceKm = Some(km)
			c.Location = Some(math.Max(0, 100-s.sc.LocationPointsPerKm*km))
		}
	}

	if mid := p.PriceRange.Mid(); mid > 0 && l.Price > 0 {
		dev := math.Abs(l.Price/mid - 1)
		c.Price = Some(math.Max(0, 100-s.sc.PricePenalty*dev))
	}

	if len(p.Amenities) > 0 {
		for _, a := range p.Amenities {
			if l.HasAmenity(a) {
				c.AmenityMatches++
			}
		}
		c.Amenity = Some(100 * float64(c.AmenityMatches) / float64(len(p.Amenities)))
	}

	c.Trust = s.trust(l, p)

	pop := s.sc.PopViews*float64(l.Views) + s.sc.PopFavorites*float64(l.Favorites) + s.sc.PopInquiries*float64(l.Inquiries)
	c.Popularity = math.Min(100, math.Max(0, pop))

	return c
}

func (s *Scorer) trust(l *Listing, p *PreferenceProfile) float64 {
	var pts float64
	if cat, ok := p.Category.Get(); ok && equalFold(cat, l.Category) {
		pts += s.sc.CategoryPoints
	}
	if g, ok := p.Gender.Get(); ok && l.Gender.CompatibleWith(g) {
		pts += s.sc.GenderPoints
	}
	if l.Verified {
		pts += s.sc.VerifiedPoints
	}
	if l.Rating >= s.sc.RatingThreshold {
		pts += s.sc.RatingPoints
	}
	return math.Min(100, pts)
}

// Combine returns the weighted mean of the applicable components, rounded
// half away from zero and clamped to [0, 100].
func (s *Scorer) Combine(c *ComponentScores) int {
	var sum, weight float64
	add := func(v, w float64) {
		sum += v * w
		weight += w
	}
	if v, ok := c.Location.Get(); ok {
		add(v, s.weights.Location)
	}
	if v, ok := c.Price.Get(); ok {
		add(v, s.weights.Price)
	}
	if v, ok := c.Amenity.Get(); ok {
		add(v, s.weights.Amenity)
	}
	add(c.Trust, s.weights.Trust)
	add(c.Popularity, s.weights.Popularity)

	if weight <= 0 {
		return 0
	}
	score := int(math.Round(sum / weight))
	return max(0, min(100, score))
}

// Score is Components followed by Combine.
func (s *Scorer) Score(l *Listing, p *PreferenceProfile) (int, ComponentScores) {
	c := s.Components(l, p)
	return s.Combine(&c), c
}
