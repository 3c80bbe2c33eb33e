package telemetry_test

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

func newRecordingTracer(t *testing.T) (*telemetry.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp, err := telemetry.NewTracerProviderWithExporter(exporter, config.TelemetryConfig{
		Enabled:       true,
		ServiceName:   "storefront-test",
		SamplingRatio: 1.0,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, exporter
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))

	tp.EnableSpanProfiles()
	assert.False(t, tp.SpanProfilesEnabled())
}

func TestTracerProvider_ExportsSpans(t *testing.T) {
	tp, exporter := newRecordingTracer(t)
	assert.True(t, tp.IsEnabled())

	_, span := tp.Tracer("test").Start(context.Background(), "unit-of-work")
	span.End()
	require.NoError(t, tp.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "unit-of-work", spans[0].Name)
}

func TestTracerProvider_EnableSpanProfilesIsIdempotent(t *testing.T) {
	tp, _ := newRecordingTracer(t)

	tp.EnableSpanProfiles()
	tp.EnableSpanProfiles()
	assert.True(t, tp.SpanProfilesEnabled())
}

func TestSpanHelpers(t *testing.T) {
	tp, exporter := newRecordingTracer(t)

	assert.Empty(t, telemetry.GetTraceID(context.Background()))
	assert.Empty(t, telemetry.GetSpanID(context.Background()))

	ctx, span := telemetry.StartServiceSpan(context.Background(), "cart", "add_item", attribute.String("product.slug", "nike-slim-shirt"))
	assert.Len(t, telemetry.GetTraceID(ctx), 32)
	assert.Len(t, telemetry.GetSpanID(ctx), 16)
	telemetry.RecordError(span, assert.AnError)
	telemetry.RecordError(span, nil)
	span.End()

	_, okSpan := telemetry.StartSpan(context.Background(), "ok")
	telemetry.SetOK(okSpan)
	okSpan.End()

	require.NoError(t, tp.ForceFlush(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	assert.Equal(t, "cart.add_item", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.String("service.operation", "add_item"))
	assert.Equal(t, codes.Ok, spans[1].Status.Code)
}
