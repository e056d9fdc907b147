// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package services

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/roomrank/internal/dataset"
	"github.com/tomtom215/roomrank/internal/logging"
	"github.com/tomtom215/roomrank/internal/metrics"
)

// ApplyFunc installs a freshly loaded dataset.
type ApplyFunc func(ctx context.Context, ds *dataset.Dataset) error

// DatasetReloadConfig holds dataset watch configuration.
type DatasetReloadConfig struct {
	// Path is the dataset file.
	Path string

	// WatchInterval is how often the file is checked. Default: 30s
	WatchInterval time.Duration

	// MinReloadInterval is the minimum time between two reloads. A change
	// seen sooner is picked up by a later check. Zero disables throttling.
	MinReloadInterval time.Duration
}

// DatasetReloadService polls the dataset file and reloads it when its
// modification time or size changes. A file that fails to load is logged and
// skipped until it changes again; the previous snapshot keeps serving.
type DatasetReloadService struct {
	config   DatasetReloadConfig
	apply    ApplyFunc
	load     func(path string) (*dataset.Dataset, error)
	onReload []func()
	limiter  *rate.Limiter
	logger   zerolog.Logger
	name     string

	lastMod  time.Time
	lastSize int64
}

// NewDatasetReloadService creates the service. The file as it is now is
// taken as already loaded. onReload hooks run after each successful apply.
func NewDatasetReloadService(cfg DatasetReloadConfig, apply ApplyFunc, onReload ...func()) *DatasetReloadService {
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.MinReloadInterval > 0 {
		limit = rate.Every(cfg.MinReloadInterval)
	}

	s := &DatasetReloadService{
		config:   cfg,
		apply:    apply,
		load:     dataset.Load,
		onReload: onReload,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logging.WithComponent("dataset-reload"),
		name:     "dataset-reload",
	}
	if fi, err := os.Stat(cfg.Path); err == nil {
		s.lastMod, s.lastSize = fi.ModTime(), fi.Size()
	}
	return s
}

// Serve implements suture.Service.
func (s *DatasetReloadService) Serve(ctx context.Context) error {
	s.logger.Info().
		Str("path", s.config.Path).
		Dur("watch_interval", s.config.WatchInterval).
		Dur("min_reload_interval", s.config.MinReloadInterval).
		Msg("Dataset watcher started")

	ticker := time.NewTicker(s.config.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check reloads the dataset if the file changed. It reports whether a
// reload was applied.
func (s *DatasetReloadService) check(ctx context.Context) bool {
	fi, err := os.Stat(s.config.Path)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Dataset file not readable")
		return false
	}
	if fi.ModTime().Equal(s.lastMod) && fi.Size() == s.lastSize {
		return false
	}
	if !s.limiter.Allow() {
		s.logger.Debug().Msg("Dataset change seen, reload throttled")
		return false
	}
	s.lastMod, s.lastSize = fi.ModTime(), fi.Size()

	start := time.Now()
	ds, err := s.load(s.config.Path)
	if err != nil {
		metrics.RecordDatasetReload("error", 0)
		s.logger.Warn().Err(err).Msg("Dataset reload failed, keeping previous snapshot")
		return false
	}
	if err := s.apply(ctx, ds); err != nil {
		metrics.RecordDatasetReload("error", 0)
		s.logger.Warn().Err(err).Msg("Dataset apply failed, keeping previous snapshot")
		return false
	}
	for _, hook := range s.onReload {
		hook()
	}

	metrics.RecordDatasetReload("success", len(ds.Listings))
	s.logger.Info().
		Int("listings", len(ds.Listings)).
		Int("engagement", len(ds.Engagement)).
		Int("users", len(ds.Users)).
		Dur("duration", time.Since(start)).
		Msg("Dataset reloaded")
	return true
}

// String implements fmt.Stringer.
func (s *DatasetReloadService) String() string {
	return s.name
}
