// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

// Package events carries engagement events from the tracking endpoint to the
// engagement store.
//
// The API publishes an Event for every tracked view, inquiry, favorite or
// visit request. A Consumer subscribed to the same topic validates each
// event and applies it through recommend.EngagementWriter. The ranking
// engine never writes; it sees the counters on its next read.
//
// # Transports
//
// The default transport is the Watermill gochannel pubsub, which keeps
// everything in process. Building with -tags nats switches to NATS
// JetStream, optionally served by an embedded nats-server:
//
//	go build -tags nats ./cmd/server
//
// Without the tag, selecting the nats transport fails with
// ErrTransportUnavailable.
//
// # Delivery
//
// Events are at-least-once. The consumer acks events it applied and events
// it can never apply (malformed payloads, unknown listings). Other failures
// are nacked and retried up to MaxAttempts times before being dropped.
package events
