// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package models

import (
	"time"

	"github.com/tomtom215/roomrank/internal/recommend"
)

// APIResponse is the standard envelope of every API endpoint.
//
//	{"status":"success","data":{...},"metadata":{...}}
//	{"status":"error","error":{"code":"VALIDATION_ERROR","message":"..."},"metadata":{...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata interface{} `json:"metadata,omitempty"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata is the default response metadata for endpoints without their own.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid request body or parameters (400)
//   - UNAUTHORIZED: Missing or invalid bearer token (401)
//   - NOT_FOUND: Unknown listing (404)
//   - RATE_LIMIT_EXCEEDED: Too many requests (429)
//   - SERVICE_UNAVAILABLE: Event pipeline or store unavailable (503)
//   - INTERNAL_ERROR: Unexpected server error (500)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendationsData is the data payload of the recommendation endpoints.
type RecommendationsData struct {
	Recommendations []recommend.Item `json:"recommendations"`
	Count           int              `json:"count"`
	Mode            string           `json:"mode"`
}

// NewRecommendationsResponse wraps an engine response in the API envelope.
func NewRecommendationsResponse(resp *recommend.Response) *APIResponse {
	items := resp.Items
	if items == nil {
		items = []recommend.Item{}
	}
	return &APIResponse{
		Status: "success",
		Data: RecommendationsData{
			Recommendations: items,
			Count:           len(items),
			Mode:            resp.Metadata.Mode,
		},
		Metadata: resp.Metadata,
	}
}

// TrackRequest is the body of POST /api/v1/track.
type TrackRequest struct {
	ListingID string `json:"listing_id" validate:"required,max=128"`
	Kind      string `json:"kind" validate:"required,engagement_kind"`
	Source    string `json:"source" validate:"omitempty,max=64"`
}

// TrackResponse acknowledges an accepted engagement event.
type TrackResponse struct {
	EventID string `json:"event_id"`
	Kind    string `json:"kind"`
}

// HealthStatus is the payload of the health endpoints.
type HealthStatus struct {
	Status   string            `json:"status"` // "healthy", "degraded" or "unhealthy"
	Version  string            `json:"version,omitempty"`
	Uptime   float64           `json:"uptime_seconds"`
	Store    string            `json:"store"`
	Checks   map[string]string `json:"checks,omitempty"`
	Listings int               `json:"listings,omitempty"`
}
