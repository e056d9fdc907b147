// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/roomrank/docs"
	"github.com/tomtom215/roomrank/internal/api"
	"github.com/tomtom215/roomrank/internal/auth"
	"github.com/tomtom215/roomrank/internal/config"
	"github.com/tomtom215/roomrank/internal/locations"
	"github.com/tomtom215/roomrank/internal/logging"
	"github.com/tomtom215/roomrank/internal/recommend"
	"github.com/tomtom215/roomrank/internal/resilience"
	"github.com/tomtom215/roomrank/internal/supervisor"
	"github.com/tomtom215/roomrank/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("backend", cfg.Store.Backend).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Roomrank")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Roomrank stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential component setup
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeLogged(be.close, "store")

	deps := recommend.Dependencies{
		Listings:   be.store,
		Engagement: be.store,
		Users:      be.store,
		Locations:  be.store,
	}

	breakers := func() map[string]string { return nil }
	if cfg.Breaker.Enabled {
		deps = resilience.Wrap(deps, resilience.SettingsFromConfig(&cfg.Breaker))
		guarded := deps
		breakers = func() map[string]string { return resilience.States(guarded) }
		logging.Info().Uint32("failure_threshold", cfg.Breaker.FailureThreshold).Msg("Circuit breakers enabled")
	}

	// The cache sits above the breaker so hits never count against it.
	var badgerDB *badger.DB
	if cfg.Locations.PersistentEnabled {
		badgerDB, err = locations.OpenBadger(cfg.Locations.BadgerPath)
		if err != nil {
			return fmt.Errorf("open location cache: %w", err)
		}
		defer closeLogged(badgerDB.Close, "location cache")
	}
	resolver := locations.NewCachingResolver(deps.Locations, badgerDB, locations.OptionsFromConfig(&cfg.Locations))
	deps.Locations = resolver

	engine, err := recommend.NewEngine(cfg.RecommendConfig(), deps, logging.Logger())
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	pipeline, err := initEvents(&cfg.Events, be.store)
	if err != nil {
		return fmt.Errorf("init events: %w", err)
	}
	defer closeLogged(pipeline.Close, "event pipeline")

	authMW, err := auth.NewMiddleware(&cfg.Security)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}
	logSecurityWarnings(cfg)

	opts := api.Options{
		Version:      version,
		Backend:      be.name,
		Ping:         be.store.Ping,
		ListingCount: be.listingCount,
		Breakers:     breakers,
	}
	if pipeline != nil {
		opts.Publisher = pipeline.publisher
	}
	handler := api.NewHandler(engine, opts)
	chiMW := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	router := api.NewRouter(handler, authMW, chiMW)

	docs.SwaggerInfo.Version = version

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if be.apply != nil && cfg.Store.WatchInterval > 0 && cfg.Store.DatasetPath != "" {
		tree.AddDataService(services.NewDatasetReloadService(services.DatasetReloadConfig{
			Path:              cfg.Store.DatasetPath,
			WatchInterval:     cfg.Store.WatchInterval,
			MinReloadInterval: cfg.Store.MinReloadInterval,
		}, be.apply, func() {
			// Places may have changed with the dataset.
			if err := resolver.Invalidate(); err != nil {
				logging.Warn().Err(err).Msg("Failed to invalidate location cache")
			}
		}))
		logging.Info().Dur("interval", cfg.Store.WatchInterval).Msg("Dataset hot reload enabled")
	}
	if pipeline != nil {
		tree.AddMessagingService(services.NewEventConsumerService(pipeline.consumer))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	return nil
}

func logSecurityWarnings(cfg *config.Config) {
	if cfg.Security.AuthMode == auth.ModeNone {
		logging.Warn().Msg("Authentication is DISABLED (AUTH_MODE=none): X-User-ID is trusted as the caller identity")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin while authentication is enabled; set CORS_ORIGINS in production")
	}
}
