package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

// installRecorder installs an always-sampling provider that keeps spans in memory
func installRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	previous := otel.GetTracerProvider()
	exporter := tracetest.NewInMemoryExporter()
	tp, err := newTracerProvider(Config{Enabled: true, ServiceName: "test", SamplingRatio: 1}, zap.NewNop(), sdktrace.WithSyncer(exporter))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(previous)
	})
	return exporter
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Equal(t, "AlwaysOffSampler", sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestStartServiceSpan(t *testing.T) {
	exporter := installRecorder(t)

	ctx, span := StartServiceSpan(context.Background(), "order", "checkout",
		WithAttribute(SpanAttrCartSession, "default"),
		WithAttribute(SpanAttrItemCount, 3),
	)
	assert.NotEmpty(t, GetTraceID(ctx))
	SetAttributes(span, SpanAttrOrderID, "123456", "ignored")
	AddEvent(span, "confirmation_minted", "attempts", 2)
	RecordError(span, errors.New("store down"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	got := spans[0]
	assert.Equal(t, "order.checkout", got.Name)
	assert.Equal(t, codes.Error, got.Status.Code)

	attrs := map[string]string{}
	for _, kv := range got.Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "default", attrs[SpanAttrCartSession])
	assert.Equal(t, "3", attrs[SpanAttrItemCount])
	assert.Equal(t, "123456", attrs[SpanAttrOrderID])
	require.Len(t, got.Events, 2)
	assert.Equal(t, "confirmation_minted", got.Events[0].Name)
}

func TestHelpers_NilSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		SetAttributes(nil, "a", 1)
		SetAttribute(nil, "a", 1)
		RecordError(nil, errors.New("x"))
		AddEvent(nil, "e")
	})
	assert.Empty(t, GetTraceID(context.Background()))
}

type stringer struct{}

func (stringer) String() string { return "shipped" }

func TestToAttribute(t *testing.T) {
	assert.Equal(t, "x", toAttribute("k", "x").Value.AsString())
	assert.Equal(t, int64(7), toAttribute("k", 7).Value.AsInt64())
	assert.Equal(t, true, toAttribute("k", true).Value.AsBool())
	assert.Equal(t, "shipped", toAttribute("k", stringer{}).Value.AsString())
	assert.Equal(t, "[1 2]", toAttribute("k", [2]int{1, 2}).Value.AsString())
}
