// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/roomrank/internal/logging"
	"github.com/tomtom215/roomrank/internal/metrics"
)

// msgIDHeader is the JetStream deduplication header. Other transports
// ignore it.
const msgIDHeader = "Nats-Msg-Id"

// Publisher sends engagement events to one topic.
type Publisher struct {
	publisher message.Publisher
	topic     string

	mu     sync.RWMutex
	closed bool
}

// NewPublisher creates a publisher for topic.
func NewPublisher(pub message.Publisher, topic string) *Publisher {
	return &Publisher{publisher: pub, topic: topic}
}

// Publish validates and sends e. The event id becomes the message UUID so
// redelivered copies can be deduplicated.
func (p *Publisher) Publish(ctx context.Context, e *Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("publisher is closed")
	}

	if err := e.Validate(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	data, err := e.Marshal()
	if err != nil {
		return err
	}

	msg := message.NewMessage(e.EventID, data)
	msg.Metadata.Set(msgIDHeader, e.EventID)
	msg.Metadata.Set("kind", e.Kind)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set("request_id", id)
	}
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish event %s: %w", e.EventID, err)
	}
	metrics.RecordEventPublished(e.Kind)
	return nil
}

// Topic returns the topic events are published to.
func (p *Publisher) Topic() string {
	return p.topic
}

// Close marks the publisher closed. The underlying transport is closed by
// its owner.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
