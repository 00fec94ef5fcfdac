// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; services and tests read them
// without importing net/http.
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// RequestID retrieves the correlation ID set by middleware, or "" if unset.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Now returns the request timestamp when one was injected, otherwise the wall
// clock. Tests inject a fixed time with WithTime.
func Now(ctx context.Context) time.Time {
	if ts, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return ts
	}
	return time.Now()
}

// WithTime pins the request timestamp.
func WithTime(ctx context.Context, ts time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, ts)
}
