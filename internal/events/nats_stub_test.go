// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

//go:build !nats

package events

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/roomrank/internal/config"
)

func TestNewTransport_NATSUnavailable(t *testing.T) {
	_, err := NewTransport(&config.EventsConfig{Transport: config.TransportNATS, Topic: testTopic}, watermill.NopLogger{})
	if !errors.Is(err, ErrTransportUnavailable) {
		t.Errorf("err = %v, want ErrTransportUnavailable", err)
	}
}
