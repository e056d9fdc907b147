// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/tomtom215/roomrank/internal/config"
	"github.com/tomtom215/roomrank/internal/database"
	"github.com/tomtom215/roomrank/internal/dataset"
	"github.com/tomtom215/roomrank/internal/logging"
	"github.com/tomtom215/roomrank/internal/recommend"
	"github.com/tomtom215/roomrank/internal/store"
	"github.com/tomtom215/roomrank/internal/supervisor/services"
)

// readerStore is implemented by both store.Store and database.DB.
type readerStore interface {
	recommend.ListingReader
	recommend.EngagementReader
	recommend.UserReader
	recommend.LocationResolver
	recommend.EngagementWriter
	Ping(ctx context.Context) error
}

// backend is the opened store with the hooks the rest of main needs.
type backend struct {
	name  string
	store readerStore

	// listingCount feeds the health payload.
	listingCount func(ctx context.Context) (int, error)

	// apply installs a reloaded dataset; nil when hot reload is unsupported.
	apply services.ApplyFunc

	close func() error
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Store.Backend {
	case config.BackendSQL:
		return openSQLBackend(ctx, cfg)
	default:
		return openMemoryBackend(cfg)
	}
}

func openMemoryBackend(cfg *config.Config) (*backend, error) {
	ds, err := loadDataset(cfg.Store.DatasetPath)
	if err != nil {
		return nil, err
	}

	st := store.New(ds)
	listings, engagement, users := st.Counts()
	logging.Info().
		Str("path", cfg.Store.DatasetPath).
		Int("listings", listings).
		Int("engagement", engagement).
		Int("users", users).
		Msg("In-memory store loaded")

	return &backend{
		name:  config.BackendMemory,
		store: st,
		listingCount: func(context.Context) (int, error) {
			n, _, _ := st.Counts()
			return n, nil
		},
		apply: func(_ context.Context, ds *dataset.Dataset) error {
			st.Replace(ds)
			return nil
		},
		close: func() error { return nil },
	}, nil
}

func openSQLBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Store.DatasetPath != "" {
		ds, err := loadDataset(cfg.Store.DatasetPath)
		if err != nil {
			closeLogged(db.Close, "database")
			return nil, err
		}
		if ds != nil {
			if err := db.ImportDataset(ctx, ds); err != nil {
				closeLogged(db.Close, "database")
				return nil, fmt.Errorf("import dataset: %w", err)
			}
		}
	}

	return &backend{
		name:  config.BackendSQL + "/" + db.Driver(),
		store: db,
		listingCount: func(ctx context.Context) (int, error) {
			n, _, _, err := db.Counts(ctx)
			return n, err
		},
		close: db.Close,
	}, nil
}

// loadDataset reads the dataset file. A missing file yields a nil dataset so
// the service can start empty and pick the file up on reload.
func loadDataset(path string) (*dataset.Dataset, error) {
	if path == "" {
		return nil, nil
	}
	ds, err := dataset.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Str("path", path).Msg("Dataset file not found, starting with an empty store")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}

func closeLogged(closeFn func() error, what string) {
	if err := closeFn(); err != nil {
		logging.Error().Err(err).Str("component", what).Msg("Error during close")
	}
}
