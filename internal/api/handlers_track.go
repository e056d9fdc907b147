// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/roomrank/internal/auth"
	"github.com/tomtom215/roomrank/internal/events"
	"github.com/tomtom215/roomrank/internal/logging"
	"github.com/tomtom215/roomrank/internal/models"
	"github.com/tomtom215/roomrank/internal/recommend"
)

// Track handles POST /api/v1/track.
//
// @Summary Track an engagement
// @Description Records a view, inquiry, favorite or visit request. The event is applied asynchronously; counters reflect it on a later read.
// @Tags Engagement
// @Accept json
// @Produce json
// @Param request body models.TrackRequest true "Engagement to record"
// @Success 202 {object} models.APIResponse{data=models.TrackResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Security BearerAuth
// @Router /track [post]
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.opts.Publisher == nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Event tracking is disabled", nil)
		return
	}

	var req models.TrackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Request body must be a JSON object", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	ev := events.NewEvent(req.ListingID, auth.UserIDFromContext(r.Context()),
		recommend.EngagementKind(req.Kind), req.Source, h.opts.Now())

	if err := h.opts.Publisher.Publish(r.Context(), ev); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Event could not be queued", err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("event_id", ev.EventID).
		Str("kind", ev.Kind).
		Str("listing_id", logging.SanitizeInput(ev.ListingID)).
		Msg("Engagement event queued")

	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status:   "success",
		Data:     models.TrackResponse{EventID: ev.EventID, Kind: ev.Kind},
		Metadata: newMetadata(r, start),
	})
}
