// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package main

import (
	"github.com/tomtom215/roomrank/internal/config"
	"github.com/tomtom215/roomrank/internal/events"
	"github.com/tomtom215/roomrank/internal/logging"
	"github.com/tomtom215/roomrank/internal/recommend"
)

// eventPipeline holds the engagement pipeline components.
type eventPipeline struct {
	transport *events.Transport
	publisher *events.Publisher
	consumer  *events.Consumer
}

// initEvents builds the transport with its publisher and a consumer that
// applies events to sink. It returns nil when the pipeline is disabled.
func initEvents(cfg *config.EventsConfig, sink recommend.EngagementWriter) (*eventPipeline, error) {
	if !cfg.Enabled {
		logging.Info().Msg("Event pipeline disabled (EVENTS_ENABLED=false), /track returns 503")
		return nil, nil
	}

	transport, err := events.NewTransport(cfg, logging.NewWatermillLogger(logging.WithComponent("watermill")))
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("transport", transport.Name).
		Str("topic", cfg.Topic).
		Msg("Event pipeline initialized")

	return &eventPipeline{
		transport: transport,
		publisher: events.NewPublisher(transport.Publisher, cfg.Topic),
		consumer:  events.NewConsumer(transport.Subscriber, cfg.Topic, sink, events.DefaultConsumerOptions()),
	}, nil
}

// Close stops publishing, then shuts the transport down.
func (p *eventPipeline) Close() error {
	if p == nil {
		return nil
	}
	if err := p.publisher.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing event publisher")
	}
	return p.transport.Close()
}
