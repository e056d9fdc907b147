// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Note: This package has no dependencies on other internal packages. Stores
// plug in through the reader interfaces in ports.go.

// Fallback names reported in ResponseMetadata.Fallback in addition to the
// retrieval strategy names.
const (
	FallbackNoUser          = "no_user"
	FallbackUserNotFound    = "user_not_found"
	FallbackColdStart       = "cold_start"
	FallbackUnknownMode     = "unknown_mode"
	FallbackEmptyCandidates = "empty_candidates"
	FallbackPopularity      = "popularity"
)

// Dependencies are the collaborators of an Engine.
type Dependencies struct {
	Listings   ListingReader
	Engagement EngagementReader
	Users      UserReader

	// Locations is optional. Without it affiliations are never resolved.
	Locations LocationResolver

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Engine selects a ranking pipeline per request and runs it against the
// readers. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg    *Config
	scorer *Scorer
	chain  FallbackChain
	logger zerolog.Logger

	listings   ListingReader
	engagement EngagementReader
	users      UserReader
	locations  LocationResolver
	now        func() time.Time
}

// NewEngine creates a new recommendation engine. A nil cfg means
// DefaultConfig. The configuration is copied and never changes afterwards.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Listings == nil || deps.Engagement == nil || deps.Users == nil {
		return nil, ErrNoReaders
	}

	cfg = cfg.Clone()
	chain, err := BuildFallbackChain(cfg.Candidates.FallbackChain)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Engine{
		cfg:        cfg,
		scorer:     NewScorer(cfg),
		chain:      chain,
		logger:     logger.With().Str("component", "recommend").Logger(),
		listings:   deps.Listings,
		engagement: deps.Engagement,
		users:      deps.Users,
		locations:  deps.Locations,
		now:        clock,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// Recommend serves one request. It never fails: downstream errors and panics
// are logged and turned into an empty, degraded response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) *Response {
	start := time.Now()

	requested := req.Mode
	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req, requested)
	logger.Debug().Msg("processing recommendation request")

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Limits.RequestTimeout)
	defer cancel()

	res, served, err := e.run(ctx, &req, logger)

	meta := ResponseMetadata{
		RequestID:     req.RequestID,
		RequestedMode: requested.String(),
		Mode:          served.String(),
		Timestamp:     e.now(),
	}
	if err != nil {
		logger.Error().Err(err).Str("served_mode", served.String()).Msg("recommendation failed, returning empty result")
		res = stageResult{}
		meta.Degraded = true
	}
	if !requested.known() {
		res.fallback = joinFallback(FallbackUnknownMode, res.fallback)
	}

	items := res.items
	if items == nil {
		items = []Item{}
	}
	meta.Fallback = res.fallback
	meta.TotalCandidates = res.candidates
	meta.LatencyMS = time.Since(start).Milliseconds()

	logger.Debug().
		Str("served_mode", meta.Mode).
		Str("fallback", meta.Fallback).
		Int("candidates", meta.TotalCandidates).
		Int("returned", len(items)).
		Int64("latency_ms", meta.LatencyMS).
		Msg("recommendation complete")

	return &Response{Items: items, Metadata: meta}
}

// prepareRequest clamps the limit and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = "rec-" + uuid.NewString()
	}
	req.Limit = e.ClampLimit(req.Limit)
	return req
}

// ClampLimit bounds n to the configured limits.
func (e *Engine) ClampLimit(n int) int {
	return max(e.cfg.Limits.MinLimit, min(e.cfg.Limits.MaxLimit, n))
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request, requested Mode) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Str("mode", requested.String()).
		Int("limit", req.Limit).
		Logger()
}

// run dispatches to the pipeline for req.Mode and reports the mode that was
// actually served.
func (e *Engine) run(ctx context.Context, req *Request, logger zerolog.Logger) (res stageResult, served Mode, err error) {
	served = ModeTrending
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("stack", string(debug.Stack())).Msg("panic in recommendation pipeline")
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	switch req.Mode {
	case ModePersonalized:
		return e.personalized(ctx, req, logger)
	case ModeBeginner:
		res, err = e.beginner(ctx, &req.Filters, req.Limit)
		return res, ModeBeginner, err
	default:
		res, err = e.trending(ctx, &req.Filters, req.Limit)
		return res, ModeTrending, err
	}
}

// personalized runs profile building, retrieval and scoring. Missing signals
// route the request to the trend aggregator.
func (e *Engine) personalized(ctx context.Context, req *Request, logger zerolog.Logger) (stageResult, Mode, error) {
	if req.UserID == "" {
		return e.trendingFallback(ctx, req, FallbackNoUser)
	}

	var (
		user    *UserProfile
		visited []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverInto(&err, "personalized: get user")
		u, err := e.users.GetUser(gctx, req.UserID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("personalized: get user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() (err error) {
		defer recoverInto(&err, "personalized: visited listings")
		v, err := e.engagement.ListingsVisitedBy(gctx, req.UserID)
		if err != nil {
			return fmt.Errorf("personalized: visited listings: %w", err)
		}
		visited = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return stageResult{}, ModePersonalized, err
	}
	if user == nil {
		logger.Debug().Msg("user not found, serving trending")
		return e.trendingFallback(ctx, req, FallbackUserNotFound)
	}

	history, err := e.buildHistory(ctx, interactionIDs(user.SavedListingIDs, visited))
	if err != nil {
		return stageResult{}, ModePersonalized, fmt.Errorf("personalized: %w", err)
	}
	profile := e.buildPreference(ctx, user, &history, logger)
	if history.Cold() && profile.Wide() {
		logger.Debug().Msg("cold start, serving trending")
		return e.trendingFallback(ctx, req, FallbackColdStart)
	}

	candidates, strategy, err := e.retrieve(ctx, e.candidateQuery(&profile, &req.Filters))
	if err != nil {
		return stageResult{}, ModePersonalized, fmt.Errorf("personalized: %w", err)
	}
	if len(candidates) == 0 {
		logger.Debug().Strs("chain", e.chain.Names()).Msg("fallback chain exhausted, serving trending")
		return e.trendingFallback(ctx, req, FallbackEmptyCandidates)
	}

	items := make([]Item, 0, len(candidates))
	for i := range candidates {
		items = append(items, e.scoreItem(&candidates[i], &profile))
	}
	sortItems(items, func(it *Item) float64 { return float64(*it.Score) })

	res := stageResult{items: capItems(items, req.Limit), candidates: len(candidates)}
	if strategy != StrategyAsRequested {
		res.fallback = strategy
	}
	return res, ModePersonalized, nil
}

func (e *Engine) scoreItem(l *Listing, p *PreferenceProfile) Item {
	score, comps := e.scorer.Score(l, p)
	it := Item{
		ListingID: l.ID,
		Score:     &score,
		Reasons:   matchReasons(e.cfg.Reasons, e.cfg.Scoring, score, &comps, l, p),
		createdAt: l.CreatedAt,
	}
	if km, ok := comps.DistanceKm.Get(); ok {
		m := int(math.Round(km * 1000))
		it.DistanceMeters = &m
	}
	return it
}

func (e *Engine) trendingFallback(ctx context.Context, req *Request, reason string) (stageResult, Mode, error) {
	res, err := e.trending(ctx, &req.Filters, req.Limit)
	res.fallback = joinFallback(reason, res.fallback)
	return res, ModeTrending, err
}

func joinFallback(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "," + b
	}
}

// recoverInto turns a panic in an errgroup goroutine into an error. The
// recover in run only covers the calling goroutine.
func recoverInto(err *error, stage string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: panic: %v", stage, r)
	}
}
