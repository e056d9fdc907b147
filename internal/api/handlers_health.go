// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/roomrank/internal/models"
)

const (
	checkOK    = "ok"
	checkError = "error"
)

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns store connectivity, event pipeline and circuit breaker status, listing count and uptime
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	status := "healthy"
	if h.opts.Ping != nil {
		if err := h.opts.Ping(r.Context()); err != nil {
			checks["store"] = checkError
			status = "degraded"
		} else {
			checks["store"] = checkOK
		}
	}

	if h.opts.Publisher != nil {
		checks["events"] = "enabled"
	} else {
		checks["events"] = "disabled"
	}

	if h.opts.Breakers != nil {
		for name, state := range h.opts.Breakers() {
			checks["breaker_"+name] = state
			if state == "open" {
				status = "degraded"
			}
		}
	}

	health := models.HealthStatus{
		Status:  status,
		Version: h.opts.Version,
		Uptime:  h.opts.Now().Sub(h.startTime).Seconds(),
		Store:   h.opts.Backend,
		Checks:  checks,
	}
	if h.opts.ListingCount != nil {
		if n, err := h.opts.ListingCount(r.Context()); err == nil {
			health.Listings = n
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: newMetadata(r, time.Time{}),
	})
}

// HealthLive reports that the process is serving requests.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "alive"},
		Metadata: newMetadata(r, time.Time{}),
	})
}

// HealthReady reports whether the store can serve reads.
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.opts.Ping != nil {
		if err := h.opts.Ping(r.Context()); err != nil {
			respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Store is not ready", err)
			return
		}
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "ready"},
		Metadata: newMetadata(r, time.Time{}),
	})
}
