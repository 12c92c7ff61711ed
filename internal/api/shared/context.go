package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the key type for values stored in request contexts.
type ContextKey string

// TraceIDKey is the context key under which the request trace ID lives.
const TraceIDKey ContextKey = "traceID"

// SetTraceID attaches a fresh trace ID to the context. Every log line and
// error response produced while handling the request carries it, so a
// client-reported error can be correlated with the server logs.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.NewString())
}

// GetTraceID returns the trace ID from the context, or "" when none is set.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
