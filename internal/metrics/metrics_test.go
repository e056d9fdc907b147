// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// sampleCount reads the observation count of a histogram child.
func sampleCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	m, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T is not a metric", o)
	}
	var pb dto.Metric
	if err := m.Write(&pb); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return pb.GetHistogram().GetSampleCount()
}

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name        string
		mode        string
		fallback    string
		degraded    bool
		wantOutcome string
		wantStages  []string
	}{
		{"plain personalized", "personalized", "", false, "ok", nil},
		{"cold start", "trending", "cold_start", false, "fallback", []string{"cold_start"}},
		{"chained fallbacks", "trending", "empty_candidates, popularity", false, "fallback", []string{"empty_candidates", "popularity"}},
		{"degraded wins", "beginner", "drop_city", true, "degraded", []string{"drop_city"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecommendRequestsTotal.WithLabelValues(tt.mode, tt.wantOutcome))
			stagesBefore := make([]float64, len(tt.wantStages))
			for i, s := range tt.wantStages {
				stagesBefore[i] = testutil.ToFloat64(RecommendFallbacksTotal.WithLabelValues(s))
			}
			degradedBefore := testutil.ToFloat64(RecommendDegradedTotal)
			durBefore := sampleCount(t, RecommendDuration.WithLabelValues(tt.mode))

			RecordRecommendation(tt.mode, tt.fallback, 12, tt.degraded, 3*time.Millisecond)

			if got := testutil.ToFloat64(RecommendRequestsTotal.WithLabelValues(tt.mode, tt.wantOutcome)); got != before+1 {
				t.Errorf("requests{%s,%s} = %v, want %v", tt.mode, tt.wantOutcome, got, before+1)
			}
			for i, s := range tt.wantStages {
				if got := testutil.ToFloat64(RecommendFallbacksTotal.WithLabelValues(s)); got != stagesBefore[i]+1 {
					t.Errorf("fallbacks{%s} = %v, want %v", s, got, stagesBefore[i]+1)
				}
			}
			wantDegraded := degradedBefore
			if tt.degraded {
				wantDegraded++
			}
			if got := testutil.ToFloat64(RecommendDegradedTotal); got != wantDegraded {
				t.Errorf("degraded = %v, want %v", got, wantDegraded)
			}
			if got := sampleCount(t, RecommendDuration.WithLabelValues(tt.mode)); got != durBefore+1 {
				t.Errorf("duration samples = %d, want %d", got, durBefore+1)
			}
		})
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/trending", "200"))
	RecordAPIRequest("GET", "/api/v1/trending", "200", 10*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/trending", "200")); got != before+1 {
		t.Errorf("api requests = %v, want %v", got, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
}

func TestCircuitBreakerMetrics(t *testing.T) {
	RecordCircuitBreakerState("listings", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("listings")); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}

	before := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues("listings", "closed", "open"))
	RecordCircuitBreakerTransition("listings", "closed", "open")
	if got := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues("listings", "closed", "open")); got != before+1 {
		t.Errorf("transitions = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(CircuitBreakerRequests.WithLabelValues("listings", "rejected"))
	RecordCircuitBreakerRequest("listings", "rejected")
	if got := testutil.ToFloat64(CircuitBreakerRequests.WithLabelValues("listings", "rejected")); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}

func TestRecordDatasetReload(t *testing.T) {
	RecordDatasetReload("success", 42)
	if got := testutil.ToFloat64(DatasetListings); got != 42 {
		t.Errorf("listings gauge = %v, want 42", got)
	}

	// Failed reloads keep the previous gauge value.
	RecordDatasetReload("error", 0)
	if got := testutil.ToFloat64(DatasetListings); got != 42 {
		t.Errorf("listings gauge after error = %v, want 42", got)
	}
}

func TestEventAndLocationMetrics(t *testing.T) {
	before := testutil.ToFloat64(EventsConsumed.WithLabelValues("view", "applied"))
	RecordEventConsumed("view", "applied")
	if got := testutil.ToFloat64(EventsConsumed.WithLabelValues("view", "applied")); got != before+1 {
		t.Errorf("consumed = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(EventsPublished.WithLabelValues("inquiry"))
	RecordEventPublished("inquiry")
	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("inquiry")); got != before+1 {
		t.Errorf("published = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(LocationCacheRequests.WithLabelValues("memory", "hit"))
	RecordLocationLookup("memory", "hit")
	if got := testutil.ToFloat64(LocationCacheRequests.WithLabelValues("memory", "hit")); got != before+1 {
		t.Errorf("location lookups = %v, want %v", got, before+1)
	}
}
