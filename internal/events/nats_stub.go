// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

//go:build !nats

package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/roomrank/internal/config"
)

// newNATSTransport is a stub when NATS dependencies are not compiled in.
// Build with -tags=nats to enable JetStream.
func newNATSTransport(_ *config.EventsConfig, _ watermill.LoggerAdapter) (*Transport, error) {
	return nil, fmt.Errorf("%w: nats (build with -tags=nats)", ErrTransportUnavailable)
}
