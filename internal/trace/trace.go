// Package trace carries a per-operation correlation id through
// context.Context. Each of the three entry points (HTTP request,
// queue message, sweeper tick) attaches an id at its boundary; log
// lines downstream include it so one operation can be followed across
// components. The id travels as the X-Trace-Id HTTP header and the
// x-trace-id AMQP header.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// HeaderName is the HTTP header used to propagate the trace id.
const HeaderName = "X-Trace-Id"

// AMQPHeader is the message header used to propagate the trace id.
const AMQPHeader = "x-trace-id"

type ctxKey struct{}

// NewID returns a fresh trace id.
func NewID() string { return uuid.NewString() }

// WithID returns a context carrying the given trace id. An empty id
// gets a freshly generated one.
func WithID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewID()
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the trace id stored in ctx, or "-" when the
// context carries none so log lines stay grep-able.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return id
	}
	return "-"
}
