// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package services

import (
	"context"
	"errors"
)

// ErrSubscriptionClosed is returned when the consumer's message channel
// closes while the service is still wanted, so the supervisor restarts it.
var ErrSubscriptionClosed = errors.New("event subscription closed")

// EventConsumer is satisfied by *events.Consumer.
type EventConsumer interface {
	Run(ctx context.Context) error
}

// EventConsumerService runs the engagement event consumer under supervision.
type EventConsumerService struct {
	consumer EventConsumer
	name     string
}

// NewEventConsumerService wraps consumer.
func NewEventConsumerService(consumer EventConsumer) *EventConsumerService {
	return &EventConsumerService{
		consumer: consumer,
		name:     "event-consumer",
	}
}

// Serve implements suture.Service.
func (s *EventConsumerService) Serve(ctx context.Context) error {
	err := s.consumer.Run(ctx)
	if err == nil && ctx.Err() == nil {
		return ErrSubscriptionClosed
	}
	return err
}

// String implements fmt.Stringer.
func (s *EventConsumerService) String() string {
	return s.name
}
