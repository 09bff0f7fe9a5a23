package logging

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

type traceIDKey struct{}

// TraceIDField is the log field carrying the invocation trace id.
const TraceIDField = "trace_id"

// NewTraceID returns a lexicographically sortable, time-prefixed id.
func NewTraceID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ContextWithTraceID stores id in ctx.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext returns the trace id in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// GetOrGenerateTraceID returns the trace id in ctx or a fresh one.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewTraceID()
}

// WithTrace stores id in ctx and returns a logger stamped with it, already
// attached to the returned context.
func WithTrace(ctx context.Context, l zerolog.Logger, id string) (context.Context, zerolog.Logger) {
	traced := l.With().Str(TraceIDField, id).Logger()
	ctx = ContextWithTraceID(ctx, id)
	return traced.WithContext(ctx), traced
}
