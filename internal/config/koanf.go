// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/roomrank/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/roomrank/config.yaml",
	"/etc/roomrank/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	rc := recommend.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Store: StoreConfig{
			Backend:           BackendMemory,
			DatasetPath:       "/data/roomrank.json",
			WatchInterval:     30 * time.Second,
			MinReloadInterval: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       "duckdb",
			Path:         "/data/roomrank.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // 0 = use runtime.NumCPU()
			MaxOpenConns: 0, // 0 = driver default
		},
		Security: SecurityConfig{
			AuthMode:          "none",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Events: EventsConfig{
			Enabled:        true,
			Transport:      TransportGoChannel,
			Topic:          "engagement.events",
			BufferSize:     256,
			NATSURL:        "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			StoreDir:       "/data/nats/jetstream",
			DurableName:    "engagement-consumer",
		},
		Locations: LocationsConfig{
			CacheSize:         1000,
			CacheTTL:          time.Hour,
			NegativeTTL:       5 * time.Minute,
			PersistentEnabled: false,
		},
		Breaker: BreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
		Recommend: RecommendConfig{
			WeightLocation:   rc.Weights.Location,
			WeightPrice:      rc.Weights.Price,
			WeightAmenity:    rc.Weights.Amenity,
			WeightTrust:      rc.Weights.Trust,
			WeightPopularity: rc.Weights.Popularity,
			RadiusKm:         rc.Candidates.RadiusKm,
			MaxCandidates:    rc.Candidates.MaxCandidates,
			FallbackChain:    rc.Candidates.FallbackChain,
			RequireVerified:  rc.Candidates.RequireVerified,
			TrendingWindow:   rc.Trending.Window,
			BeginnerMaxPrice: rc.Beginner.MaxPrice,
			DefaultMaxPrice:  rc.Preference.DefaultMaxPrice,
			MaxLimit:         rc.Limits.MaxLimit,
			RequestTimeout:   rc.Limits.RequestTimeout,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"recommend.fallback_chain",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		// An empty value clears the list (e.g. RECOMMEND_FALLBACK_CHAIN= disables widening).
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Store mappings
	"store_backend":               "store.backend",
	"dataset_path":                "store.dataset_path",
	"dataset_watch_interval":      "store.watch_interval",
	"dataset_min_reload_interval": "store.min_reload_interval",

	// Database mappings
	"db_driver":         "database.driver",
	"duckdb_path":       "database.path",
	"database_url":      "database.dsn",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"db_max_open_conns": "database.max_open_conns",

	// Security mappings
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Event pipeline mappings
	"events_enabled":     "events.enabled",
	"events_transport":   "events.transport",
	"events_topic":       "events.topic",
	"events_buffer_size": "events.buffer_size",
	"nats_url":           "events.nats_url",
	"nats_embedded":      "events.embedded_server",
	"nats_store_dir":     "events.store_dir",
	"nats_durable_name":  "events.durable_name",

	// Location cache mappings
	"location_cache_size":         "locations.cache_size",
	"location_cache_ttl":          "locations.cache_ttl",
	"location_negative_ttl":       "locations.negative_ttl",
	"location_persistent_enabled": "locations.persistent_enabled",
	"location_badger_path":        "locations.badger_path",

	// Circuit breaker mappings
	"breaker_enabled":           "breaker.enabled",
	"breaker_max_requests":      "breaker.max_requests",
	"breaker_interval":          "breaker.interval",
	"breaker_timeout":           "breaker.timeout",
	"breaker_failure_threshold": "breaker.failure_threshold",

	// Recommendation engine mappings
	"recommend_weight_location":   "recommend.weight_location",
	"recommend_weight_price":      "recommend.weight_price",
	"recommend_weight_amenity":    "recommend.weight_amenity",
	"recommend_weight_trust":      "recommend.weight_trust",
	"recommend_weight_popularity": "recommend.weight_popularity",
	"recommend_radius_km":         "recommend.radius_km",
	"recommend_max_candidates":    "recommend.max_candidates",
	"recommend_fallback_chain":    "recommend.fallback_chain",
	"recommend_require_verified":  "recommend.require_verified",
	"recommend_trending_window":   "recommend.trending_window",
	"recommend_beginner_max_rent": "recommend.beginner_max_price",
	"recommend_default_max_rent":  "recommend.default_max_price",
	"recommend_max_limit":         "recommend.max_limit",
	"recommend_request_timeout":   "recommend.request_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - RECOMMEND_FALLBACK_CHAIN -> recommend.fallback_chain
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped keys are skipped so unrelated environment variables never
	// pollute the configuration.
	return ""
}
