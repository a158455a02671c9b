package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/google/uuid"
)

// ContextKey is the type of request-scoped values set by the API layer.
type ContextKey string

const (
	// ClaimsContextKey holds the *domain.Claims of an authenticated request.
	ClaimsContextKey ContextKey = "claims"

	// TraceIDKey holds the request's trace ID.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID (32 hex characters).
	TraceIDLength = 16
)

// SetTraceID adds a fresh trace ID to ctx.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID returns the trace ID in ctx, or "" when there is none.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// generateTraceID falls back to a random UUID's hex form if crypto/rand fails.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		id := uuid.New()
		return hex.EncodeToString(id[:])
	}
	return hex.EncodeToString(b)
}

// WithClaims stores the verified claims of the caller in ctx.
func WithClaims(ctx context.Context, claims *domain.Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the caller's claims, or nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *domain.Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*domain.Claims)
	return claims
}
