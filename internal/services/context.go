package services

import "context"

type contextKey string

const (
	videoIDKey      contextKey = "video_id"
	jurisdictionKey contextKey = "jurisdiction"
	requestIDKey    contextKey = "request_id"
)

// WithVideoID annotates context with the provider video identifier.
func WithVideoID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, videoIDKey, id)
}

// VideoIDFromContext extracts the provider video identifier if present.
func VideoIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(videoIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithJurisdiction annotates context with a jurisdiction name.
func WithJurisdiction(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, jurisdictionKey, name)
}

// JurisdictionFromContext returns the jurisdiction name if present.
func JurisdictionFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(jurisdictionKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier. Each
// compliance check carries its own.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
