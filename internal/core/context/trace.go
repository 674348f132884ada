package context

import (
	"context"

	"github.com/google/uuid"
)

// TraceContext carries request correlation ids through the call chain.
// The HTTP trace middleware populates it; the logger and error handler
// read it back.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceKey struct{}

// NewTraceContext builds a trace from inbound correlation ids,
// generating any that are missing. The span id is derived from the
// trace id so related log lines group together.
func NewTraceContext(traceID, requestID string) *TraceContext {
	if traceID == "" {
		traceID = uuid.New().String()
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	span := traceID
	if len(span) > 16 {
		span = span[:16]
	}
	return &TraceContext{
		TraceID:   traceID,
		SpanID:    span,
		RequestID: requestID,
	}
}

// WithTrace stores the trace in the context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// GetTrace returns the trace, or nil outside of a request.
func GetTrace(ctx context.Context) *TraceContext {
	trace, _ := ctx.Value(traceKey{}).(*TraceContext)
	return trace
}

// GetTraceID returns the current trace id, generating one for callers
// running outside a request (workers, tests).
func GetTraceID(ctx context.Context) string {
	if trace := GetTrace(ctx); trace != nil {
		return trace.TraceID
	}
	return uuid.New().String()
}

// GetRequestID returns the request id, or "" outside of a request.
func GetRequestID(ctx context.Context) string {
	if trace := GetTrace(ctx); trace != nil {
		return trace.RequestID
	}
	return ""
}
