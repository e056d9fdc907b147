// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/roomrank/internal/logging"
	"github.com/tomtom215/roomrank/internal/metrics"
	"github.com/tomtom215/roomrank/internal/recommend"
)

// Consume outcomes reported to metrics.
const (
	resultApplied  = "applied"
	resultRejected = "rejected"
	resultFailed   = "failed"
	resultDropped  = "dropped"
)

// ConsumerOptions tunes redelivery.
type ConsumerOptions struct {
	// MaxAttempts is the number of times a failing event is tried before
	// it is dropped.
	MaxAttempts int

	// RetryDelay is the pause before a failed event is nacked.
	RetryDelay time.Duration
}

// DefaultConsumerOptions returns the production redelivery settings.
func DefaultConsumerOptions() ConsumerOptions {
	return ConsumerOptions{MaxAttempts: 5, RetryDelay: 500 * time.Millisecond}
}

// Consumer applies engagement events from a topic to the engagement store.
type Consumer struct {
	subscriber message.Subscriber
	topic      string
	sink       recommend.EngagementWriter
	opts       ConsumerOptions
	logger     zerolog.Logger

	ready     chan struct{}
	readyOnce sync.Once

	mu       sync.Mutex
	attempts map[string]int
}

// NewConsumer creates a consumer. Run starts it.
func NewConsumer(sub message.Subscriber, topic string, sink recommend.EngagementWriter, opts ConsumerOptions) *Consumer {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	return &Consumer{
		subscriber: sub,
		topic:      topic,
		sink:       sink,
		opts:       opts,
		logger:     logging.WithComponent("event-consumer"),
		ready:      make(chan struct{}),
		attempts:   make(map[string]int),
	}
}

// Ready is closed once the consumer has subscribed.
func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

// Run consumes messages until ctx is canceled or the subscription closes.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, err)
	}
	c.readyOnce.Do(func() { close(c.ready) })

	c.logger.Info().Str("topic", c.topic).Msg("Event consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

// handle applies one message and acks or nacks it.
func (c *Consumer) handle(ctx context.Context, msg *message.Message) {
	ev, err := UnmarshalEvent(msg.Payload)
	if err != nil {
		kind := msg.Metadata.Get("kind")
		if kind == "" {
			kind = "unknown"
		}
		metrics.RecordEventConsumed(kind, resultRejected)
		c.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Rejected malformed engagement event")
		msg.Ack()
		return
	}

	evCtx := logging.ContextWithEventID(logging.ContextWithLogger(ctx, c.logger), ev.EventID)
	if id := msg.Metadata.Get("request_id"); id != "" {
		evCtx = logging.ContextWithRequestID(evCtx, id)
	}

	err = c.sink.ApplyEvent(evCtx, ev.Engagement())
	switch {
	case err == nil:
		c.forget(msg.UUID)
		metrics.RecordEventConsumed(ev.Kind, resultApplied)
		logging.Ctx(evCtx).Debug().
			Str("listing_id", ev.ListingID).
			Str("kind", ev.Kind).
			Msg("Engagement event applied")
		msg.Ack()

	case errors.Is(err, recommend.ErrNotFound):
		c.forget(msg.UUID)
		metrics.RecordEventConsumed(ev.Kind, resultRejected)
		logging.Ctx(evCtx).Warn().Err(err).
			Str("listing_id", logging.SanitizeInput(ev.ListingID)).
			Msg("Rejected engagement event for unknown listing")
		msg.Ack()

	default:
		attempt := c.attempt(msg.UUID)
		if attempt >= c.opts.MaxAttempts {
			c.forget(msg.UUID)
			metrics.RecordEventConsumed(ev.Kind, resultDropped)
			logging.CtxErr(evCtx, err).
				Int("attempts", attempt).
				Msg("Dropped engagement event after repeated failures")
			msg.Ack()
			return
		}
		metrics.RecordEventConsumed(ev.Kind, resultFailed)
		logging.Ctx(evCtx).Warn().Err(err).Int("attempt", attempt).Msg("Engagement event failed, will retry")
		if c.opts.RetryDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(c.opts.RetryDelay):
			}
		}
		msg.Nack()
	}
}

func (c *Consumer) attempt(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts[id]++
	return c.attempts[id]
}

func (c *Consumer) forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.attempts, id)
}
