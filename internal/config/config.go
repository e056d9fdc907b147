// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package config

import (
	"time"

	"github.com/tomtom215/roomrank/internal/recommend"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Store     StoreConfig     `koanf:"store"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Events    EventsConfig    `koanf:"events"`
	Locations LocationsConfig `koanf:"locations"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`

	// Environment is "development" or "production". Production refuses
	// unauthenticated mode and wildcard CORS with authentication.
	Environment string `koanf:"environment"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
)

// StoreConfig selects where listings, engagement and users are read from.
type StoreConfig struct {
	// Backend is "memory" (dataset snapshot) or "sql" (internal/database).
	Backend string `koanf:"backend" validate:"oneof=memory sql"`

	// DatasetPath is the JSON dataset. The memory backend loads and watches
	// it; the sql backend imports it at startup when set.
	DatasetPath string `koanf:"dataset_path"`

	// WatchInterval is how often the dataset file is checked for changes.
	// Zero disables hot reload.
	WatchInterval time.Duration `koanf:"watch_interval" validate:"min=0"`

	// MinReloadInterval throttles reloads of a frequently rewritten file.
	MinReloadInterval time.Duration `koanf:"min_reload_interval" validate:"min=0"`
}

// DatabaseConfig holds SQL store configuration.
type DatabaseConfig struct {
	// Driver is "duckdb" or "postgres".
	Driver string `koanf:"driver" validate:"omitempty,oneof=duckdb postgres"`

	// Path is the DuckDB file; empty or ":memory:" keeps it in memory.
	Path string `koanf:"path"`

	// DSN is the Postgres connection string.
	DSN string `koanf:"dsn"`

	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads" validate:"min=0"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"min=0"`
}

// SecurityConfig holds authentication and request limiting configuration.
type SecurityConfig struct {
	// AuthMode is "none" (trust the X-User-ID header) or "jwt".
	AuthMode  string `koanf:"auth_mode" validate:"oneof=none jwt"`
	JWTSecret string `koanf:"jwt_secret"`
	JWTIssuer string `koanf:"jwt_issuer"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Event transports.
const (
	TransportGoChannel = "gochannel"
	TransportNATS      = "nats"
)

// EventsConfig holds engagement event pipeline configuration.
type EventsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Transport string `koanf:"transport" validate:"oneof=gochannel nats"`
	Topic     string `koanf:"topic" validate:"required"`

	// BufferSize is the gochannel output buffer.
	BufferSize int64 `koanf:"buffer_size" validate:"min=0"`

	NATSURL        string `koanf:"nats_url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	DurableName    string `koanf:"durable_name"`
}

// LocationsConfig holds the affiliation lookup cache configuration.
type LocationsConfig struct {
	CacheSize   int           `koanf:"cache_size" validate:"min=1"`
	CacheTTL    time.Duration `koanf:"cache_ttl" validate:"min=0"`
	NegativeTTL time.Duration `koanf:"negative_ttl" validate:"min=0"`

	// PersistentEnabled adds the Badger tier. An empty BadgerPath keeps
	// it in memory.
	PersistentEnabled bool   `koanf:"persistent_enabled"`
	BadgerPath        string `koanf:"badger_path"`
}

// BreakerConfig holds circuit breaker settings shared by all store readers.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests" validate:"min=1"`
	Interval         time.Duration `koanf:"interval" validate:"min=0"`
	Timeout          time.Duration `koanf:"timeout" validate:"min=0"`
	FailureThreshold uint32        `koanf:"failure_threshold" validate:"min=1"`
}

// RecommendConfig exposes the engine settings that operators tune. All
// other engine constants keep their recommend.DefaultConfig values.
type RecommendConfig struct {
	WeightLocation   float64 `koanf:"weight_location" validate:"min=0"`
	WeightPrice      float64 `koanf:"weight_price" validate:"min=0"`
	WeightAmenity    float64 `koanf:"weight_amenity" validate:"min=0"`
	WeightTrust      float64 `koanf:"weight_trust" validate:"min=0"`
	WeightPopularity float64 `koanf:"weight_popularity" validate:"min=0"`

	RadiusKm        float64  `koanf:"radius_km" validate:"gt=0"`
	MaxCandidates   int      `koanf:"max_candidates" validate:"min=1"`
	FallbackChain   []string `koanf:"fallback_chain"`
	RequireVerified bool     `koanf:"require_verified"`

	TrendingWindow   time.Duration `koanf:"trending_window" validate:"gt=0"`
	BeginnerMaxPrice float64       `koanf:"beginner_max_price" validate:"gt=0"`
	DefaultMaxPrice  float64       `koanf:"default_max_price" validate:"gt=0"`
	MaxLimit         int           `koanf:"max_limit" validate:"min=1"`
	RequestTimeout   time.Duration `koanf:"request_timeout" validate:"gt=0"`
}

// RecommendConfig returns the engine configuration: recommend.DefaultConfig
// overlaid with the tuned values.
func (c *Config) RecommendConfig() *recommend.Config {
	rc := recommend.DefaultConfig()
	r := &c.Recommend

	rc.Weights = recommend.ScoringWeights{
		Location:   r.WeightLocation,
		Price:      r.WeightPrice,
		Amenity:    r.WeightAmenity,
		Trust:      r.WeightTrust,
		Popularity: r.WeightPopularity,
	}
	rc.Candidates.RadiusKm = r.RadiusKm
	rc.Candidates.MaxCandidates = r.MaxCandidates
	rc.Candidates.FallbackChain = append([]string(nil), r.FallbackChain...)
	rc.Candidates.RequireVerified = r.RequireVerified
	rc.Trending.Window = r.TrendingWindow
	rc.Beginner.MaxPrice = r.BeginnerMaxPrice
	rc.Preference.DefaultMaxPrice = r.DefaultMaxPrice
	rc.Limits.MaxLimit = r.MaxLimit
	rc.Limits.RequestTimeout = r.RequestTimeout
	return rc
}
