// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/roomrank/internal/auth"
	"github.com/tomtom215/roomrank/internal/config"
	"github.com/tomtom215/roomrank/internal/events"
	"github.com/tomtom215/roomrank/internal/recommend"
)

// fakeEngine records the last request and returns a canned response.
type fakeEngine struct {
	mu   sync.Mutex
	last recommend.Request
	resp *recommend.Response
}

func (f *fakeEngine) Recommend(_ context.Context, req recommend.Request) *recommend.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req
	if f.resp != nil {
		return f.resp
	}
	return &recommend.Response{Metadata: recommend.ResponseMetadata{RequestID: req.RequestID, Mode: req.Mode.String()}}
}

func (f *fakeEngine) lastRequest() recommend.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, e *events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, engine Recommender, opts Options, sec *config.SecurityConfig) http.Handler {
	t.Helper()
	if sec == nil {
		sec = &config.SecurityConfig{AuthMode: auth.ModeNone, CORSOrigins: []string{"*"}, RateLimitDisabled: true}
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	authMW, err := auth.NewMiddleware(sec)
	if err != nil {
		t.Fatalf("auth.NewMiddleware() error = %v", err)
	}
	return NewRouter(NewHandler(engine, opts), authMW, NewChiMiddleware(ChiMiddlewareConfigFromSecurity(sec))).Setup()
}

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata json.RawMessage `json:"metadata"`
	Error    *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, target string, body []byte, header map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestRecommendations_QueryParsing(t *testing.T) {
	tests := []struct {
		name   string
		target string
		check  func(t *testing.T, req recommend.Request)
	}{
		{
			name:   "defaults",
			target: "/api/v1/recommendations",
			check: func(t *testing.T, req recommend.Request) {
				if req.Mode != recommend.ModePersonalized {
					t.Errorf("Mode = %v, want personalized", req.Mode)
				}
				if req.Limit != defaultLimit {
					t.Errorf("Limit = %d, want %d", req.Limit, defaultLimit)
				}
				if req.Filters.MaxRent.IsSet() || req.Filters.Near.IsSet() {
					t.Errorf("unexpected filters %+v", req.Filters)
				}
			},
		},
		{
			name:   "all filters",
			target: "/api/v1/recommendations?mode=beginner&limit=5&city=Pune&max_rent=9000&category=pg&amenities=wifi,%20ac,,&lat=18.52&lon=73.85",
			check: func(t *testing.T, req recommend.Request) {
				if req.Mode != recommend.ModeBeginner || req.Limit != 5 {
					t.Errorf("Mode/Limit = %v/%d", req.Mode, req.Limit)
				}
				f := req.Filters
				if f.City != "Pune" || f.Category != "pg" {
					t.Errorf("City/Category = %q/%q", f.City, f.Category)
				}
				if rent, ok := f.MaxRent.Get(); !ok || rent != 9000 {
					t.Errorf("MaxRent = %v, %v", rent, ok)
				}
				if len(f.Amenities) != 2 || f.Amenities[0] != "wifi" || f.Amenities[1] != "ac" {
					t.Errorf("Amenities = %q", f.Amenities)
				}
				if p, ok := f.Near.Get(); !ok || p.Lat != 18.52 || p.Lon != 73.85 {
					t.Errorf("Near = %+v, %v", p, ok)
				}
			},
		},
		{
			name:   "unparseable values",
			target: "/api/v1/recommendations?limit=abc&max_rent=cheap&lat=north&lon=73.85",
			check: func(t *testing.T, req recommend.Request) {
				if req.Limit != defaultLimit {
					t.Errorf("Limit = %d, want %d", req.Limit, defaultLimit)
				}
				if req.Filters.MaxRent.IsSet() {
					t.Error("unparseable max_rent was kept")
				}
				if req.Filters.Near.IsSet() {
					t.Error("lon without lat was kept")
				}
			},
		},
		{
			name:   "out of range values",
			target: "/api/v1/recommendations?limit=500&max_rent=-1&lat=95&lon=10&max_rent=NaN",
			check: func(t *testing.T, req recommend.Request) {
				// Clamping is the engine's job.
				if req.Limit != 500 {
					t.Errorf("Limit = %d, want 500 passed through", req.Limit)
				}
				if req.Filters.MaxRent.IsSet() || req.Filters.Near.IsSet() {
					t.Errorf("invalid filters kept: %+v", req.Filters)
				}
			},
		},
		{
			name:   "unknown mode",
			target: "/api/v1/recommendations?mode=surprise",
			check: func(t *testing.T, req recommend.Request) {
				if req.Mode != recommend.ModeUnknown {
					t.Errorf("Mode = %v, want unknown", req.Mode)
				}
			},
		},
		{
			name:   "trending endpoint",
			target: "/api/v1/trending?mode=personalized&city=Delhi",
			check: func(t *testing.T, req recommend.Request) {
				if req.Mode != recommend.ModeTrending || req.Filters.City != "Delhi" {
					t.Errorf("Mode/City = %v/%q", req.Mode, req.Filters.City)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{}
			h := newTestServer(t, engine, Options{}, nil)
			rec, _ := do(t, h, http.MethodGet, tt.target, nil, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			tt.check(t, engine.lastRequest())
		})
	}
}

func TestRecommendations_Envelope(t *testing.T) {
	score := 87
	engine := &fakeEngine{resp: &recommend.Response{
		Items: []recommend.Item{{ListingID: "l-1", Score: &score, Reasons: []string{"Within your budget"}}},
		Metadata: recommend.ResponseMetadata{
			RequestID:     "r-1",
			RequestedMode: "personalized",
			Mode:          "personalized",
		},
	}}
	h := newTestServer(t, engine, Options{}, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/recommendations", nil, map[string]string{auth.UserIDHeader: "u-1"})
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("status = %d/%q", rec.Code, env.Status)
	}
	if engine.lastRequest().UserID != "u-1" {
		t.Errorf("UserID = %q, want u-1", engine.lastRequest().UserID)
	}
	if engine.lastRequest().RequestID == "" {
		t.Error("request id not propagated to the engine")
	}

	var data struct {
		Recommendations []map[string]interface{} `json:"recommendations"`
		Count           int                      `json:"count"`
		Mode            string                   `json:"mode"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Count != 1 || data.Mode != "personalized" || data.Recommendations[0]["listing_id"] != "l-1" {
		t.Errorf("data = %+v", data)
	}
	if got := rec.Header().Get("Cache-Control"); got != "private, no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestRecommendations_EmptyItemsIsArray(t *testing.T) {
	engine := &fakeEngine{resp: &recommend.Response{Metadata: recommend.ResponseMetadata{Mode: "trending", Degraded: true}}}
	h := newTestServer(t, engine, Options{}, nil)

	rec, _ := do(t, h, http.MethodGet, "/api/v1/trending", nil, nil)
	if !strings.Contains(rec.Body.String(), `"recommendations":[]`) {
		t.Errorf("body = %s, want empty array", rec.Body.String())
	}
}

func TestRecommendations_InvalidToken(t *testing.T) {
	sec := &config.SecurityConfig{
		AuthMode:          auth.ModeJWT,
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		CORSOrigins:       []string{"https://app.example.com"},
		RateLimitDisabled: true,
	}
	h := newTestServer(t, &fakeEngine{}, Options{}, sec)

	rec, env := do(t, h, http.MethodGet, "/api/v1/recommendations", nil, map[string]string{"Authorization": "Bearer nope"})
	if rec.Code != http.StatusUnauthorized || env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestTrack(t *testing.T) {
	pub := &fakePublisher{}
	h := newTestServer(t, &fakeEngine{}, Options{Publisher: pub}, nil)

	body := []byte(`{"listing_id":"l-9","kind":"inquiry","source":"detail_page"}`)
	rec, env := do(t, h, http.MethodPost, "/api/v1/track", body, map[string]string{auth.UserIDHeader: "u-5"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.ListingID != "l-9" || ev.UserID != "u-5" || ev.Kind != "inquiry" || ev.Source != "detail_page" {
		t.Errorf("event = %+v", ev)
	}
	if !ev.Timestamp.Equal(testNow) {
		t.Errorf("Timestamp = %v, want %v", ev.Timestamp, testNow)
	}

	var data struct {
		EventID string `json:"event_id"`
		Kind    string `json:"kind"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.EventID != ev.EventID || data.Kind != "inquiry" {
		t.Errorf("data = %+v", data)
	}
}

func TestTrack_Errors(t *testing.T) {
	tests := []struct {
		name       string
		publisher  EventPublisher
		body       string
		wantStatus int
		wantCode   string
	}{
		{"invalid kind", &fakePublisher{}, `{"listing_id":"l-1","kind":"share"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing listing", &fakePublisher{}, `{"kind":"view"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"empty body", &fakePublisher{}, ``, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed json", &fakePublisher{}, `{"listing_id":`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"events disabled", nil, `{"listing_id":"l-1","kind":"view"}`, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"publish failure", &fakePublisher{err: errors.New("nats: connection closed")}, `{"listing_id":"l-1","kind":"view"}`, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, &fakeEngine{}, Options{Publisher: tt.publisher}, nil)
			rec, env := do(t, h, http.MethodPost, "/api/v1/track", []byte(tt.body), nil)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
			if strings.Contains(rec.Body.String(), "nats:") {
				t.Error("internal error text leaked to the client")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	var pingErr error
	opts := Options{
		Version:      "1.2.3",
		Backend:      "memory",
		Ping:         func(context.Context) error { return pingErr },
		ListingCount: func(context.Context) (int, error) { return 42, nil },
		Breakers:     func() map[string]string { return map[string]string{"listings": "closed"} },
	}
	h := newTestServer(t, &fakeEngine{}, opts, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var health struct {
		Status   string            `json:"status"`
		Version  string            `json:"version"`
		Store    string            `json:"store"`
		Listings int               `json:"listings"`
		Checks   map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "healthy" || health.Version != "1.2.3" || health.Store != "memory" || health.Listings != 42 {
		t.Errorf("health = %+v", health)
	}
	if health.Checks["store"] != "ok" || health.Checks["events"] != "disabled" || health.Checks["breaker_listings"] != "closed" {
		t.Errorf("checks = %v", health.Checks)
	}

	if rec, _ := do(t, h, http.MethodGet, "/api/v1/health/ready", nil, nil); rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}

	pingErr = errors.New("database closed")
	_, env = do(t, h, http.MethodGet, "/api/v1/health", nil, nil)
	_ = json.Unmarshal(env.Data, &health)
	if health.Status != "degraded" || health.Checks["store"] != "error" {
		t.Errorf("health after failure = %+v", health)
	}
	if rec, _ := do(t, h, http.MethodGet, "/api/v1/health/ready", nil, nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}
	if rec, _ := do(t, h, http.MethodGet, "/api/v1/health/live", nil, nil); rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	sec := &config.SecurityConfig{
		AuthMode:        auth.ModeNone,
		CORSOrigins:     []string{"*"},
		RateLimitReqs:   2,
		RateLimitWindow: time.Minute,
	}
	h := newTestServer(t, &fakeEngine{}, Options{}, sec)

	for i := 0; i < 2; i++ {
		if rec, _ := do(t, h, http.MethodGet, "/api/v1/trending", nil, nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	rec, env := do(t, h, http.MethodGet, "/api/v1/trending", nil, nil)
	if rec.Code != http.StatusTooManyRequests || env.Error == nil || env.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestRouter_MiscRoutes(t *testing.T) {
	h := newTestServer(t, &fakeEngine{}, Options{}, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/nope", nil, nil)
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("unknown route: status = %d, error = %+v", rec.Code, env.Error)
	}

	rec, _ = do(t, h, http.MethodGet, "/metrics", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "roomrank_api_requests_total") {
		t.Errorf("/metrics status = %d", rec.Code)
	}

	rec, _ = do(t, h, http.MethodGet, "/api/v1/health/live", nil, map[string]string{"X-Request-ID": "abc-123"})
	if rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}
