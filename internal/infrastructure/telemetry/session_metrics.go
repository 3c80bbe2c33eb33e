package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SessionMetrics records session store and checkout activity.
// A nil *SessionMetrics is valid and records nothing.
type SessionMetrics struct {
	dispatches      *Counter
	persistFailures *Counter
	checkouts       *Counter
	dispatchLatency *Histogram
}

// NewSessionMetrics registers the session instruments on meter.
func NewSessionMetrics(meter metric.Meter) (*SessionMetrics, error) {
	dispatches, err := NewCounter(meter, "session_dispatches_total", "Session actions dispatched by type", "{action}")
	if err != nil {
		return nil, err
	}
	failures, err := NewCounter(meter, "session_persist_failures_total", "Failed session storage writes", "{write}")
	if err != nil {
		return nil, err
	}
	checkouts, err := NewCounter(meter, "checkout_orders_total", "Checkout attempts by outcome", "{order}")
	if err != nil {
		return nil, err
	}
	latency, err := NewHistogram(meter, HistogramOpts{
		Name:        "session_dispatch_duration_ms",
		Description: "Time to reduce and persist a session action",
		Unit:        "ms",
		Buckets:     []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250},
	})
	if err != nil {
		return nil, err
	}
	return &SessionMetrics{
		dispatches:      dispatches,
		persistFailures: failures,
		checkouts:       checkouts,
		dispatchLatency: latency,
	}, nil
}

// RecordDispatch counts one dispatched action and its latency.
func (m *SessionMetrics) RecordDispatch(ctx context.Context, actionType string, d time.Duration) {
	if m == nil {
		return
	}
	attr := attribute.String("action", actionType)
	m.dispatches.Inc(ctx, attr)
	m.dispatchLatency.RecordDuration(ctx, d, attr)
}

// RecordPersistFailure counts a storage write that failed for key.
func (m *SessionMetrics) RecordPersistFailure(ctx context.Context, key string) {
	if m == nil {
		return
	}
	m.persistFailures.Inc(ctx, attribute.String("key", key))
}

// RecordCheckout counts a checkout attempt with its outcome ("placed", "rejected", "failed").
func (m *SessionMetrics) RecordCheckout(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.checkouts.Inc(ctx, attribute.String("outcome", outcome))
}
