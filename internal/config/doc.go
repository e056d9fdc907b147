// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

/*
Package config provides centralized configuration management for Roomrank.

Configuration is loaded by LoadWithKoanf in three layers, later layers
overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, then config.yaml, config.yml,
    /etc/roomrank/config.yaml and /etc/roomrank/config.yml
 3. Environment variables, mapped through an explicit table

Unmapped environment variables are ignored. Comma-separated values are split
for list settings (CORS_ORIGINS, RECOMMEND_FALLBACK_CHAIN).

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 8080)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development or production

Store:
  - STORE_BACKEND: memory (default) or sql
  - DATASET_PATH: JSON dataset (default: /data/roomrank.json)
  - DATASET_WATCH_INTERVAL, DATASET_MIN_RELOAD_INTERVAL
  - DB_DRIVER: duckdb (default) or postgres
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS, DATABASE_URL, DB_MAX_OPEN_CONNS

Security:
  - AUTH_MODE: none (X-User-ID header, development only) or jwt
  - JWT_SECRET (min 32 chars), JWT_ISSUER
  - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Events:
  - EVENTS_ENABLED, EVENTS_TRANSPORT (gochannel or nats), EVENTS_TOPIC
  - NATS_URL, NATS_EMBEDDED, NATS_STORE_DIR, NATS_DURABLE_NAME

Locations and resilience:
  - LOCATION_CACHE_SIZE, LOCATION_CACHE_TTL (default: 1h), LOCATION_NEGATIVE_TTL
  - LOCATION_PERSISTENT_ENABLED, LOCATION_BADGER_PATH
  - BREAKER_ENABLED, BREAKER_MAX_REQUESTS, BREAKER_INTERVAL, BREAKER_TIMEOUT,
    BREAKER_FAILURE_THRESHOLD

Recommendation engine:
  - RECOMMEND_WEIGHT_LOCATION, RECOMMEND_WEIGHT_PRICE, RECOMMEND_WEIGHT_AMENITY,
    RECOMMEND_WEIGHT_TRUST, RECOMMEND_WEIGHT_POPULARITY
  - RECOMMEND_RADIUS_KM, RECOMMEND_MAX_CANDIDATES, RECOMMEND_FALLBACK_CHAIN,
    RECOMMEND_REQUIRE_VERIFIED, RECOMMEND_TRENDING_WINDOW,
    RECOMMEND_BEGINNER_MAX_RENT, RECOMMEND_DEFAULT_MAX_RENT,
    RECOMMEND_MAX_LIMIT, RECOMMEND_REQUEST_TIMEOUT

# Validation

Validate applies validator struct tags, then cross-field rules: production
refuses AUTH_MODE=none and wildcard CORS with authentication, jwt mode needs a
real secret, and the derived recommend.Config must pass its own Validate.

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal(err)
	}
	engine, err := recommend.NewEngine(cfg.RecommendConfig(), deps, logger)
*/
package config
