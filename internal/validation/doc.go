// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator with user-friendly error
// messages and conversion to the API error envelope. It validates the
// service configuration, tracking requests and engagement event payloads.
//
// Field names in messages are the wire names taken from json or koanf tags.
//
// # Custom Validators
//
//   - engagement_kind: view, inquiry, favorite or visit_request
//
// # Quick Start
//
//	type TrackRequest struct {
//	    ListingID string `json:"listing_id" validate:"required,max=128"`
//	    Kind      string `json:"kind" validate:"required,engagement_kind"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
package validation
