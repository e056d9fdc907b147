// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package api

import (
	"net/http"

	"github.com/tomtom215/roomrank/internal/auth"
	"github.com/tomtom215/roomrank/internal/logging"
	"github.com/tomtom215/roomrank/internal/models"
	"github.com/tomtom215/roomrank/internal/recommend"
)

// defaultLimit is used when limit is missing or unparseable.
const defaultLimit = 10

// Recommendations handles GET /api/v1/recommendations.
//
// @Summary Get recommendations
// @Description Returns ranked listings for the caller. Anonymous callers and users without history receive trending results.
// @Tags Recommendations
// @Produce json
// @Param mode query string false "personalized (default), trending or beginner"
// @Param limit query int false "Number of results, 1-50 (default 10)"
// @Param city query string false "City filter"
// @Param max_rent query number false "Maximum monthly rent"
// @Param category query string false "Listing category"
// @Param amenities query string false "Comma-separated amenities that must all be present"
// @Param lat query number false "Latitude of the search center"
// @Param lon query number false "Longitude of the search center"
// @Success 200 {object} models.APIResponse{data=models.RecommendationsData}
// @Failure 401 {object} models.APIResponse
// @Failure 429 {object} models.APIResponse
// @Security BearerAuth
// @Router /recommendations [get]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	mode := recommend.ModePersonalized
	if raw := r.URL.Query().Get("mode"); raw != "" {
		// Unknown names map to ModeUnknown, which the engine serves as trending.
		mode, _ = recommend.ParseMode(raw)
	}
	h.serveRecommendations(w, r, mode)
}

// Trending handles GET /api/v1/trending.
//
// @Summary Get trending listings
// @Description Listings ranked by recent engagement. Accepts the same filters as /recommendations.
// @Tags Recommendations
// @Produce json
// @Param limit query int false "Number of results, 1-50 (default 10)"
// @Param city query string false "City filter"
// @Param max_rent query number false "Maximum monthly rent"
// @Param category query string false "Listing category"
// @Param amenities query string false "Comma-separated amenities"
// @Success 200 {object} models.APIResponse{data=models.RecommendationsData}
// @Router /trending [get]
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	h.serveRecommendations(w, r, recommend.ModeTrending)
}

func (h *Handler) serveRecommendations(w http.ResponseWriter, r *http.Request, mode recommend.Mode) {
	req := parseRecommendationRequest(r, mode)

	resp := h.engine.Recommend(r.Context(), req)
	if resp.Metadata.Degraded {
		logging.Ctx(r.Context()).Warn().
			Str("mode", resp.Metadata.Mode).
			Msg("Serving degraded recommendations")
	}

	respondJSON(w, http.StatusOK, models.NewRecommendationsResponse(resp))
}

// parseRecommendationRequest builds an engine request from query parameters.
// Invalid values are dropped rather than rejected.
func parseRecommendationRequest(r *http.Request, mode recommend.Mode) recommend.Request {
	q := r.URL.Query()

	req := recommend.Request{
		UserID:    auth.UserIDFromContext(r.Context()),
		Mode:      mode,
		Limit:     getIntParam(r, "limit", defaultLimit),
		RequestID: logging.RequestIDFromContext(r.Context()),
		Filters: recommend.Filters{
			City:      q.Get("city"),
			Category:  q.Get("category"),
			Amenities: getListParam(r, "amenities"),
		},
	}

	if rent, ok := getFloatParam(r, "max_rent"); ok && rent >= 0 {
		req.Filters.MaxRent = recommend.Some(rent)
	}

	lat, latOK := getFloatParam(r, "lat")
	lon, lonOK := getFloatParam(r, "lon")
	if latOK && lonOK && lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180 {
		req.Filters.Near = recommend.Some(recommend.GeoPoint{Lat: lat, Lon: lon})
	}

	return req
}
