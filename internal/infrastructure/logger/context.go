package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

// Context keys carried by request contexts
const (
	LoggerKey      contextKey = "logger"
	RequestIDKey   contextKey = "request_id"
	CartSessionKey contextKey = "cart_session"
)

// WithContext stores logger in ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := requestLogger(ctx); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID tags logger with requestID and stores both in ctx
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	tagged := logger.With(zap.String("request_id", requestID))
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	return WithContext(ctx, tagged), tagged
}

// WithCartSession stores the resolved cart session in ctx
func WithCartSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, CartSessionKey, session)
}

// GetRequestID returns the request id in ctx, or ""
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// GetCartSession returns the cart session in ctx, or ""
func GetCartSession(ctx context.Context) string {
	session, _ := ctx.Value(CartSessionKey).(string)
	return session
}

// GetTraceID returns the trace id of the span in ctx, or ""
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

func requestLogger(ctx context.Context) (*zap.Logger, bool) {
	l, ok := ctx.Value(LoggerKey).(*zap.Logger)
	return l, ok && l != nil
}

// ContextLogger writes through a zap logger, adding the trace, request
// and cart session found in its context to every entry.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L logs through the request logger stored in ctx
func L(ctx context.Context) *ContextLogger {
	return WithLogger(ctx, FromContext(ctx))
}

// WithLogger logs through logger with the fields found in ctx
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextLogger{ctx: ctx, logger: logger}
}

// For prefers the request logger in ctx and falls back to fallback for
// work started outside a request, such as event handlers and the cart
// persist pool.
func For(ctx context.Context, fallback *zap.Logger) *ContextLogger {
	if l, ok := requestLogger(ctx); ok {
		return WithLogger(ctx, l)
	}
	return WithLogger(ctx, fallback)
}

func (cl *ContextLogger) fields() []zap.Field {
	var fields []zap.Field
	if sc := trace.SpanContextFromContext(cl.ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	// GinMiddleware's request logger is already tagged with request_id
	if _, tagged := requestLogger(cl.ctx); !tagged {
		if id := GetRequestID(cl.ctx); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
	}
	if session := GetCartSession(cl.ctx); session != "" {
		fields = append(fields, zap.String("cart_session", session))
	}
	return fields
}

// With returns a child ContextLogger carrying fields
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, logger: cl.logger.With(fields...)}
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.Zap().Debug(msg, fields...)
}

func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.Zap().Info(msg, fields...)
}

func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.Zap().Warn(msg, fields...)
}

func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.Zap().Error(msg, fields...)
}

// Zap returns the underlying logger with the context fields applied
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.logger.With(cl.fields()...)
}
