// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package events

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/roomrank/internal/config"
)

// ErrTransportUnavailable is returned when the configured transport was not
// compiled into the binary.
var ErrTransportUnavailable = errors.New("event transport not available")

// Transport bundles the publisher and subscriber sides of one message bus.
type Transport struct {
	Name       string
	Publisher  message.Publisher
	Subscriber message.Subscriber

	closers []func() error
}

// NewTransport builds the transport selected by cfg.Transport.
func NewTransport(cfg *config.EventsConfig, logger watermill.LoggerAdapter) (*Transport, error) {
	switch cfg.Transport {
	case config.TransportGoChannel, "":
		return newGoChannelTransport(cfg, logger), nil
	case config.TransportNATS:
		return newNATSTransport(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown event transport %q", cfg.Transport)
	}
}

func newGoChannelTransport(cfg *config.EventsConfig, logger watermill.LoggerAdapter) *Transport {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, logger)
	return &Transport{
		Name:       config.TransportGoChannel,
		Publisher:  pubsub,
		Subscriber: pubsub,
		closers:    []func() error{pubsub.Close},
	}
}

// Close shuts down the transport, in reverse order of construction.
func (t *Transport) Close() error {
	var errs []error
	for i := len(t.closers) - 1; i >= 0; i-- {
		if err := t.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	t.closers = nil
	return errors.Join(errs...)
}
