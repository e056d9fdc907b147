// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// isolate points CONFIG_PATH at a missing file and moves into an empty
// directory so no config.yaml on disk leaks into the test.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Database.Driver != "duckdb" {
		t.Errorf("Database.Driver = %q, want duckdb", cfg.Database.Driver)
	}
	if cfg.Security.AuthMode != "none" {
		t.Errorf("Security.AuthMode = %q, want none", cfg.Security.AuthMode)
	}
	if cfg.Events.Transport != TransportGoChannel {
		t.Errorf("Events.Transport = %q, want gochannel", cfg.Events.Transport)
	}
	if cfg.Locations.CacheTTL != time.Hour {
		t.Errorf("Locations.CacheTTL = %v, want 1h", cfg.Locations.CacheTTL)
	}
	if cfg.Recommend.MaxLimit != 50 {
		t.Errorf("Recommend.MaxLimit = %d, want 50", cfg.Recommend.MaxLimit)
	}
	if !slices.Equal(cfg.Recommend.FallbackChain, []string{"drop_city"}) {
		t.Errorf("Recommend.FallbackChain = %v, want [drop_city]", cfg.Recommend.FallbackChain)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"ENVIRONMENT", "server.environment"},
		{"LOG_LEVEL", "logging.level"},
		{"STORE_BACKEND", "store.backend"},
		{"DATASET_PATH", "store.dataset_path"},
		{"DUCKDB_PATH", "database.path"},
		{"DATABASE_URL", "database.dsn"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"NATS_URL", "events.nats_url"},
		{"LOCATION_CACHE_TTL", "locations.cache_ttl"},
		{"BREAKER_TIMEOUT", "breaker.timeout"},
		{"RECOMMEND_FALLBACK_CHAIN", "recommend.fallback_chain"},
		{"recommend_radius_km", "recommend.radius_km"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Breaker.FailureThreshold != 5 {
		t.Errorf("Breaker.FailureThreshold = %d, want 5", cfg.Breaker.FailureThreshold)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_BACKEND", "sql")
	t.Setenv("DUCKDB_THREADS", "2")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("RECOMMEND_FALLBACK_CHAIN", "drop_city,drop_radius")
	t.Setenv("RECOMMEND_TRENDING_WINDOW", "168h")
	t.Setenv("LOCATION_CACHE_TTL", "30m")
	t.Setenv("BREAKER_MAX_REQUESTS", "7")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendSQL {
		t.Errorf("Store.Backend = %q, want sql", cfg.Store.Backend)
	}
	if cfg.Database.Threads != 2 {
		t.Errorf("Database.Threads = %d, want 2", cfg.Database.Threads)
	}
	if want := []string{"https://a.example.org", "https://b.example.org"}; !slices.Equal(cfg.Security.CORSOrigins, want) {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if want := []string{"drop_city", "drop_radius"}; !slices.Equal(cfg.Recommend.FallbackChain, want) {
		t.Errorf("Recommend.FallbackChain = %v, want %v", cfg.Recommend.FallbackChain, want)
	}
	if cfg.Recommend.TrendingWindow != 168*time.Hour {
		t.Errorf("Recommend.TrendingWindow = %v, want 168h", cfg.Recommend.TrendingWindow)
	}
	if cfg.Locations.CacheTTL != 30*time.Minute {
		t.Errorf("Locations.CacheTTL = %v, want 30m", cfg.Locations.CacheTTL)
	}
	if cfg.Breaker.MaxRequests != 7 {
		t.Errorf("Breaker.MaxRequests = %d, want 7", cfg.Breaker.MaxRequests)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7000
store:
  backend: sql
database:
  path: ":memory:"
recommend:
  require_verified: true
  max_candidates: 50
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("Server.Port = %d, want 7001 (env beats file)", cfg.Server.Port)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q, want :memory:", cfg.Database.Path)
	}
	if !cfg.Recommend.RequireVerified || cfg.Recommend.MaxCandidates != 50 {
		t.Errorf("Recommend = %+v, want require_verified and max_candidates 50", cfg.Recommend)
	}
	if rc := cfg.RecommendConfig(); !rc.Candidates.RequireVerified || rc.Candidates.MaxCandidates != 50 {
		t.Errorf("RecommendConfig().Candidates = %+v", rc.Candidates)
	}
}

func TestLoadWithKoanf_InvalidEnv(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "HTTP_PORT", "70000"},
		{"unknown backend", "STORE_BACKEND", "redis"},
		{"unknown strategy", "RECOMMEND_FALLBACK_CHAIN", "drop_everything"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"zero window", "RECOMMEND_TRENDING_WINDOW", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			if _, err := LoadWithKoanf(); err == nil {
				t.Errorf("LoadWithKoanf() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}

func TestLoadWithKoanf_EmptyFallbackChain(t *testing.T) {
	isolate(t)
	t.Setenv("RECOMMEND_FALLBACK_CHAIN", "")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if len(cfg.Recommend.FallbackChain) != 0 {
		t.Errorf("Recommend.FallbackChain = %v, want empty", cfg.Recommend.FallbackChain)
	}
}
