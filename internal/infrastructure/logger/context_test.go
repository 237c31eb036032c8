package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	log := zap.NewExample()
	ctx := WithContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
}

func TestL(t *testing.T) {
	t.Run("adds request id, session and trace fields", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		base := zap.New(core)

		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

		ctx := trace.ContextWithSpanContext(context.Background(), sc)
		ctx = context.WithValue(ctx, RequestIDKey, "req-1")
		ctx = WithCartSession(ctx, "sess-9")

		WithLogger(ctx, base).Info("cart saved")

		require.Equal(t, 1, recorded.Len())
		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "sess-9", fields["cart_session"])
		assert.Equal(t, traceID.String(), fields["trace_id"])
		assert.Equal(t, spanID.String(), fields["span_id"])
		assert.Equal(t, traceID.String(), GetTraceID(ctx))
	})

	t.Run("request logger is not tagged twice", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)

		ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-2")
		L(ctx).Info("hello")

		require.Equal(t, 1, recorded.Len())
		count := 0
		for _, f := range recorded.All()[0].Context {
			if f.Key == "request_id" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("no logger in context is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			L(context.Background()).With(zap.Int("n", 1)).Error("dropped")
		})
	})
}

func TestFor(t *testing.T) {
	fallbackCore, fallbackLogs := observer.New(zapcore.InfoLevel)
	requestCore, requestLogs := observer.New(zapcore.InfoLevel)
	fallback := zap.New(fallbackCore)

	For(context.Background(), fallback).Info("background")
	assert.Equal(t, 1, fallbackLogs.Len())

	ctx, _ := WithRequestID(context.Background(), zap.New(requestCore), "req-3")
	For(ctx, fallback).Info("in request")
	assert.Equal(t, 1, requestLogs.Len())
	assert.Equal(t, 1, fallbackLogs.Len())
}
