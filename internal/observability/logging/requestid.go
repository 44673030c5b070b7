package logging

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID stores the request id on the context for log correlation
// and propagation to outbound calls.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id stored on the context, or
// empty when none is set.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// ValidateAndExtractRequestID returns the given id when it is a valid
// UUID, otherwise a freshly generated one. Inbound ids are caller
// controlled and must not flow into logs unchecked.
func ValidateAndExtractRequestID(requestID string) string {
	if _, err := uuid.Parse(requestID); err != nil {
		return uuid.NewString()
	}
	return requestID
}
