// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"fmt"
	"slices"
	"time"
)

// Config contains all tunable parameters of the engine. An Engine copies its
// Config at construction and never mutates it afterwards.
type Config struct {
	// Weights is the relative contribution of each similarity component.
	Weights ScoringWeights `json:"weights"`

	// Scoring holds the per-component formula constants.
	Scoring ScoringConfig `json:"scoring"`

	// Reasons holds the thresholds used to attach match reasons.
	Reasons ReasonConfig `json:"reasons"`

	// Preference controls how the preference profile is built.
	Preference PreferenceConfig `json:"preference"`

	// History controls the interaction history summary.
	History HistoryConfig `json:"history"`

	// Candidates controls candidate retrieval.
	Candidates CandidateConfig `json:"candidates"`

	// Trending controls the trend aggregator.
	Trending TrendingConfig `json:"trending"`

	// Beginner controls the beginner selector.
	Beginner BeginnerConfig `json:"beginner"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// ScoringWeights is the weight of each similarity component. Only the
// components applicable to a candidate take part, and their weights are
// renormalized, so the weights need not sum to 1.
type ScoringWeights struct {
	// Default: 0.30.
	Location float64 `json:"location"`

	// Default: 0.25.
	Price float64 `json:"price"`

	// Default: 0.20.
	Amenity float64 `json:"amenity"`

	// Trust is the categorical/trust bonus component.
	// Default: 0.15.
	Trust float64 `json:"trust"`

	// Default: 0.10.
	Popularity float64 `json:"popularity"`
}

func (w ScoringWeights) sum() float64 {
	return w.Location + w.Price + w.Amenity + w.Trust + w.Popularity
}

// ScoringConfig holds the constants used inside each component formula.
type ScoringConfig struct {
	// LocationPointsPerKm is subtracted from 100 per kilometre of distance.
	// Default: 5.
	LocationPointsPerKm float64 `json:"location_points_per_km"`

	// PricePenalty scales the relative deviation from the range midpoint.
	// Default: 50.
	PricePenalty float64 `json:"price_penalty"`

	// CategoryPoints is awarded when the listing category matches.
	// Default: 30.
	CategoryPoints float64 `json:"category_points"`

	// GenderPoints is awarded when the listing accepts the user's gender.
	// Default: 20.
	GenderPoints float64 `json:"gender_points"`

	// VerifiedPoints is awarded for verified listings.
	// Default: 25.
	VerifiedPoints float64 `json:"verified_points"`

	// RatingPoints is awarded when the rating reaches RatingThreshold.
	// Default: 25.
	RatingPoints float64 `json:"rating_points"`

	// RatingThreshold is the minimum rating for RatingPoints.
	// Default: 4.
	RatingThreshold float64 `json:"rating_threshold"`

	// Popularity coefficients: min(cap, views*PopViews + favorites*PopFavorites + inquiries*PopInquiries).
	// Defaults: 0.1, 2, 5.
	PopViews     float64 `json:"pop_views"`
	PopFavorites float64 `json:"pop_favorites"`
	PopInquiries float64 `json:"pop_inquiries"`
}

// ReasonConfig holds the thresholds used by the match reason generator.
type ReasonConfig struct {
	// Score tiers. Defaults: 80, 60, 40.
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Decent    int `json:"decent"`

	// Distance tiers in kilometres. Defaults: 2, 5.
	VeryCloseKm  float64 `json:"very_close_km"`
	ConvenientKm float64 `json:"convenient_km"`
}

// PreferenceConfig controls the preference builder.
type PreferenceConfig struct {
	// DefaultMinPrice and DefaultMaxPrice are the price range used when the
	// user has no explicit budget.
	// Defaults: 0, 20000.
	DefaultMinPrice float64 `json:"default_min_price"`
	DefaultMaxPrice float64 `json:"default_max_price"`

	// HistoryMultiplier widens the upper bound to HistoryMultiplier x mean price.
	// Default: 1.3.
	HistoryMultiplier float64 `json:"history_multiplier"`

	// AbsoluteMaxPrice caps the widened upper bound.
	// Default: 50000.
	AbsoluteMaxPrice float64 `json:"absolute_max_price"`

	// MaxAmenities is how many history amenities become preferences (at most 5).
	// Default: 3.
	MaxAmenities int `json:"max_amenities"`
}

// HistoryConfig controls how many ranked entries the history keeps.
type HistoryConfig struct {
	// Defaults: 3, 2, 5.
	TopCities     int `json:"top_cities"`
	TopCategories int `json:"top_categories"`
	TopAmenities  int `json:"top_amenities"`
}

// CandidateConfig controls candidate retrieval.
type CandidateConfig struct {
	// RadiusKm bounds candidates around the anchor point.
	// Default: 20.
	RadiusKm float64 `json:"radius_km"`

	// MaxCandidates caps how many candidates are scored.
	// Default: 200.
	MaxCandidates int `json:"max_candidates"`

	// FallbackChain lists the widening strategies tried after the query as
	// requested returns nothing, in order. See StrategyNames.
	// Default: ["drop_city"].
	FallbackChain []string `json:"fallback_chain"`

	// RequireVerified restricts every path to verified listings.
	// Default: false.
	RequireVerified bool `json:"require_verified"`
}

// TrendingConfig controls the trend aggregator.
type TrendingConfig struct {
	// Window is the look-back period.
	// Default: 720h (30 days).
	Window time.Duration `json:"window"`

	// Coefficients. Defaults: 0.3, 2, 1.5, 3, 0.5.
	Views         float64 `json:"views"`
	Inquiries     float64 `json:"inquiries"`
	Favorites     float64 `json:"favorites"`
	VisitRequests float64 `json:"visit_requests"`
	DailyViews    float64 `json:"daily_views"`
}

// BeginnerConfig controls the beginner selector.
type BeginnerConfig struct {
	// MaxPrice is the rent ceiling for beginner results.
	// Default: 15000.
	MaxPrice float64 `json:"max_price"`

	// RadiusKm applies when the request carries explicit coordinates.
	// Default: 10.
	RadiusKm float64 `json:"radius_km"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// MinLimit and MaxLimit bound the number of returned items.
	// Defaults: 1, 50.
	MinLimit int `json:"min_limit"`
	MaxLimit int `json:"max_limit"`

	// RequestTimeout bounds all collaborator reads of one request.
	// Default: 10s.
	RequestTimeout time.Duration `json:"request_timeout"`
}

// DefaultConfig returns a Config with the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: ScoringWeights{
			Location:   0.30,
			Price:      0.25,
			Amenity:    0.20,
			Trust:      0.15,
			Popularity: 0.10,
		},
		Scoring: ScoringConfig{
			LocationPointsPerKm: 5,
			PricePenalty:        50,
			CategoryPoints:      30,
			GenderPoints:        20,
			VerifiedPoints:      25,
			RatingPoints:        25,
			RatingThreshold:     4,
			PopViews:            0.1,
			PopFavorites:        2,
			PopInquiries:        5,
		},
		Reasons: ReasonConfig{
			Excellent:    80,
			Good:         60,
			Decent:       40,
			VeryCloseKm:  2,
			ConvenientKm: 5,
		},
		Preference: PreferenceConfig{
			DefaultMinPrice:   0,
			DefaultMaxPrice:   20000,
			HistoryMultiplier: 1.3,
			AbsoluteMaxPrice:  50000,
			MaxAmenities:      3,
		},
		History: HistoryConfig{
			TopCities:     3,
			TopCategories: 2,
			TopAmenities:  5,
		},
		Candidates: CandidateConfig{
			RadiusKm:      20,
			MaxCandidates: 200,
			FallbackChain: []string{StrategyDropCity},
		},
		Trending: TrendingConfig{
			Window:        30 * 24 * time.Hour,
			Views:         0.3,
			Inquiries:     2,
			Favorites:     1.5,
			VisitRequests: 3,
			DailyViews:    0.5,
		},
		Beginner: BeginnerConfig{
			MaxPrice: 15000,
			RadiusKm: 10,
		},
		Limits: LimitsConfig{
			MinLimit:       1,
			MaxLimit:       50,
			RequestTimeout: 10 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	w := c.Weights
	if w.Location < 0 || w.Price < 0 || w.Amenity < 0 || w.Trust < 0 || w.Popularity < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", w)
	}
	if w.sum() <= 0 {
		return fmt.Errorf("weights must not all be zero")
	}

	if c.Scoring.LocationPointsPerKm < 0 {
		return fmt.Errorf("scoring.location_points_per_km must be non-negative, got %f", c.Scoring.LocationPointsPerKm)
	}
	if c.Scoring.PricePenalty < 0 {
		return fmt.Errorf("scoring.price_penalty must be non-negative, got %f", c.Scoring.PricePenalty)
	}
	trust := c.Scoring.CategoryPoints + c.Scoring.GenderPoints + c.Scoring.VerifiedPoints + c.Scoring.RatingPoints
	if trust > 100 {
		return fmt.Errorf("scoring trust points must sum to at most 100, got %f", trust)
	}

	if c.Reasons.Excellent < c.Reasons.Good || c.Reasons.Good < c.Reasons.Decent {
		return fmt.Errorf("reasons tiers must be non-increasing, got %d/%d/%d",
			c.Reasons.Excellent, c.Reasons.Good, c.Reasons.Decent)
	}

	p := c.Preference
	if p.DefaultMinPrice < 0 || p.DefaultMaxPrice < p.DefaultMinPrice {
		return fmt.Errorf("preference default price range is invalid: [%f, %f]", p.DefaultMinPrice, p.DefaultMaxPrice)
	}
	if p.AbsoluteMaxPrice < p.DefaultMaxPrice {
		return fmt.Errorf("preference.absolute_max_price must be >= preference.default_max_price, got %f < %f",
			p.AbsoluteMaxPrice, p.DefaultMaxPrice)
	}
	if p.HistoryMultiplier <= 0 {
		return fmt.Errorf("preference.history_multiplier must be positive, got %f", p.HistoryMultiplier)
	}
	if p.MaxAmenities < 0 || p.MaxAmenities > 5 {
		return fmt.Errorf("preference.max_amenities must be in [0, 5], got %d", p.MaxAmenities)
	}

	if c.History.TopCities < 1 || c.History.TopCategories < 1 || c.History.TopAmenities < 0 {
		return fmt.Errorf("history sizes are invalid: %+v", c.History)
	}

	if c.Candidates.RadiusKm <= 0 {
		return fmt.Errorf("candidates.radius_km must be positive, got %f", c.Candidates.RadiusKm)
	}
	if c.Candidates.MaxCandidates < 1 {
		return fmt.Errorf("candidates.max_candidates must be positive, got %d", c.Candidates.MaxCandidates)
	}
	if _, err := BuildFallbackChain(c.Candidates.FallbackChain); err != nil {
		return fmt.Errorf("candidates.fallback_chain: %w", err)
	}

	if c.Trending.Window <= 0 {
		return fmt.Errorf("trending.window must be positive, got %v", c.Trending.Window)
	}

	if c.Beginner.MaxPrice <= 0 {
		return fmt.Errorf("beginner.max_price must be positive, got %f", c.Beginner.MaxPrice)
	}
	if c.Beginner.RadiusKm <= 0 {
		return fmt.Errorf("beginner.radius_km must be positive, got %f", c.Beginner.RadiusKm)
	}

	if c.Limits.MinLimit < 1 {
		return fmt.Errorf("limits.min_limit must be positive, got %d", c.Limits.MinLimit)
	}
	if c.Limits.MaxLimit < c.Limits.MinLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.min_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.MinLimit)
	}
	if c.Limits.RequestTimeout <= 0 {
		return fmt.Errorf("limits.request_timeout must be positive, got %v", c.Limits.RequestTimeout)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Candidates.FallbackChain = slices.Clone(c.Candidates.FallbackChain)
	return &clone
}
