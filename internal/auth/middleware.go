// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/roomrank/internal/config"
	"github.com/tomtom215/roomrank/internal/logging"
	"github.com/tomtom215/roomrank/internal/models"
)

// Auth modes.
const (
	ModeNone = "none"
	ModeJWT  = "jwt"
)

// UserIDHeader carries the caller's id in ModeNone.
const UserIDHeader = "X-User-ID"

const maxUserIDLength = 128

type contextKey string

const userIDContextKey contextKey = "user_id"

// ContextWithUserID stores the authenticated user id.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user id, or "" for anonymous
// requests.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDContextKey).(string); ok {
		return id
	}
	return ""
}

// Middleware resolves the caller's identity.
type Middleware struct {
	mode string
	jwt  *JWTManager
}

// NewMiddleware builds the middleware for cfg.AuthMode.
func NewMiddleware(cfg *config.SecurityConfig) (*Middleware, error) {
	switch cfg.AuthMode {
	case ModeNone, "":
		return &Middleware{mode: ModeNone}, nil
	case ModeJWT:
		m, err := NewJWTManager(cfg)
		if err != nil {
			return nil, err
		}
		return &Middleware{mode: ModeJWT, jwt: m}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}

// Mode returns the active auth mode.
func (m *Middleware) Mode() string {
	return m.mode
}

// Identify attaches the caller's user id to the request context. Requests
// without credentials pass through as anonymous.
func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var userID string

		switch m.mode {
		case ModeJWT:
			header := r.Header.Get("Authorization")
			if header == "" {
				break
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, r, "Authorization header must use the Bearer scheme")
				return
			}
			claims, err := m.jwt.ValidateToken(token)
			if err != nil {
				logging.Ctx(r.Context()).Warn().
					Err(err).
					Str("token", logging.SanitizeToken(token)).
					Msg("Rejected bearer token")
				unauthorized(w, r, "Invalid or expired token")
				return
			}
			userID = claims.Subject

		default:
			userID = strings.TrimSpace(r.Header.Get(UserIDHeader))
		}

		if len(userID) > maxUserIDLength {
			unauthorized(w, r, "User id is too long")
			return
		}
		if userID != "" {
			r = r.WithContext(ContextWithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="roomrank"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(&models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{Code: "UNAUTHORIZED", Message: message},
	})
}
