// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		zerologLevel zerolog.Level
		slogLevel    slog.Level
		want         bool
	}{
		{"warn logger rejects info", zerolog.WarnLevel, slog.LevelInfo, false},
		{"warn logger accepts warn", zerolog.WarnLevel, slog.LevelWarn, true},
		{"info logger accepts error", zerolog.InfoLevel, slog.LevelError, true},
		{"error logger rejects warn", zerolog.ErrorLevel, slog.LevelWarn, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSlogHandlerWithLogger(zerolog.New(nil).Level(tt.zerologLevel))
			if got := h.Enabled(context.Background(), tt.slogLevel); got != tt.want {
				t.Errorf("Enabled(%v) = %v, want %v", tt.slogLevel, got, tt.want)
			}
		})
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))

	slogger.Warn("service restarted",
		"service", "http",
		"attempt", 3,
		"healthy", true,
		"backoff", 2*time.Second,
		"err", errors.New("listener closed"),
	)

	output := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"message":"service restarted"`,
		`"service":"http"`,
		`"attempt":3`,
		`"healthy":true`,
		`"err":"listener closed"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestSlogHandler_WithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewSlogHandlerWithLogger(zerolog.New(&buf))
	slogger := slog.New(h.WithAttrs([]slog.Attr{slog.String("supervisor", "roomrank")}).
		WithGroup("event").WithGroup("svc"))

	slogger.Error("terminated", "name", "consumer")

	output := buf.String()
	if !strings.Contains(output, `"event.svc.supervisor":"roomrank"`) {
		t.Errorf("expected grouped pre-configured attr: %s", output)
	}
	if !strings.Contains(output, `"event.svc.name":"consumer"`) {
		t.Errorf("expected nested group prefix in order: %s", output)
	}
}

func TestSlogHandler_WithGroup_Empty(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.New(nil))
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}

func TestAddAttr_GroupValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))
	slogger.Error("grouped", slog.Group("listing", slog.String("id", "l-1"), slog.Float64("price", 4500)))

	output := buf.String()
	if !strings.Contains(output, `"listing.id":"l-1"`) || !strings.Contains(output, `"listing.price":4500`) {
		t.Errorf("expected flattened group keys: %s", output)
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewSlogLogger(t *testing.T) {
	buf := capture(t)

	NewSlogLogger().Info("via global", "k", "v")

	if !strings.Contains(buf.String(), `"k":"v"`) {
		t.Errorf("expected slog output on the global logger: %s", buf.String())
	}
}
