// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

/*
Package main is the entry point for the Roomrank server.

Roomrank ranks rentable room listings for a user: personalized results from
the user's affiliation, budget and saved listings, trending results from
recent engagement, and a beginner mode for first-time renters. Engagement is
tracked through an asynchronous event pipeline.

# Application Architecture

	RootSupervisor ("roomrank")
	├── DataSupervisor ("data-layer")
	│   └── DatasetReloadService (memory backend, DATASET_WATCH_INTERVAL > 0)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventConsumerService (EVENTS_ENABLED=true)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog with JSON or console output
 3. Store: in-memory dataset snapshot, or DuckDB/Postgres via internal/database
 4. Location cache: LRU memory tier with an optional Badger tier
 5. Circuit breakers: gobreaker around every store reader
 6. Engine: internal/recommend
 7. Events: watermill over gochannel, or NATS JetStream with -tags nats
 8. HTTP: chi router with CORS, rate limiting, auth and Prometheus metrics
 9. Supervisor tree: suture v4

# Configuration

Selected environment variables:

	STORE_BACKEND=memory|sql        dataset snapshot or SQL store
	DATASET_PATH=/data/roomrank.json
	DB_DRIVER=duckdb|postgres
	DATABASE_URL=postgres://...     postgres connection string
	AUTH_MODE=none|jwt              jwt requires JWT_SECRET
	EVENTS_TRANSPORT=gochannel|nats
	LOCATION_PERSISTENT_ENABLED=true

# Build Tags

	go build ./cmd/server                # gochannel events only
	go build -tags nats ./cmd/server     # NATS JetStream transport

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for HTTP_SHUTDOWN_TIMEOUT, then the event transport,
location cache and store are closed in that order.
*/
package main
