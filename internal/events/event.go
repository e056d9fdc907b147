// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/roomrank/internal/recommend"
	"github.com/tomtom215/roomrank/internal/validation"
)

// Event is the wire form of one tracked interaction.
type Event struct {
	EventID   string    `json:"event_id" validate:"required,max=64"`
	ListingID string    `json:"listing_id" validate:"required,max=128"`
	UserID    string    `json:"user_id,omitempty" validate:"max=128"`
	Kind      string    `json:"kind" validate:"required,engagement_kind"`
	Source    string    `json:"source,omitempty" validate:"max=64"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

// NewEvent creates an event with a fresh id stamped at now.
func NewEvent(listingID, userID string, kind recommend.EngagementKind, source string, now time.Time) *Event {
	return &Event{
		EventID:   uuid.New().String(),
		ListingID: listingID,
		UserID:    userID,
		Kind:      string(kind),
		Source:    source,
		Timestamp: now.UTC(),
	}
}

// Validate checks the event's struct tags.
func (e *Event) Validate() error {
	if verr := validation.ValidateStruct(e); verr != nil {
		return verr
	}
	return nil
}

// Engagement converts the event to the store's write model.
func (e *Event) Engagement() recommend.EngagementEvent {
	return recommend.EngagementEvent{
		ListingID: e.ListingID,
		UserID:    e.UserID,
		Kind:      recommend.EngagementKind(e.Kind),
		Source:    e.Source,
		Timestamp: e.Timestamp,
	}
}

// Marshal encodes the event as JSON.
func (e *Event) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// UnmarshalEvent decodes and validates an event payload.
func UnmarshalEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	return &e, nil
}
