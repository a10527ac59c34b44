package logger

import "context"

// requestIDKey is an unexported key type so request IDs cannot collide with
// context values set by other packages.
type requestIDKey struct{}

// WithRequestID stores the request ID on the context for downstream log calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID carried by ctx, or "" when none was set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
