// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets them, services read them, and tests
// inject them without standing up an HTTP stack. Keeping the package free of
// net/http lets the engine depend on it without pulling transport code.
//
// The request time accessor matters most here: every deadline and audit
// computation takes its "now" from the context so a whole request observes a
// single instant and tests stay deterministic.
package requestcontext

import (
	"context"
	"time"

	id "caseline/pkg/domain"
)

type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	actorIDKey     struct{}
	actorRoleKey   struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	apiVersionKey  struct{}
)

// WithRequestID stores the correlation ID for the request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation ID, or "" when unset.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithTime pins the request-scoped clock.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now returns the request-scoped time. Falls back to the wall clock when no
// middleware has pinned one, so library use outside HTTP still works.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithActor records the authenticated actor and their role.
func WithActor(ctx context.Context, actorID, role string) context.Context {
	ctx = context.WithValue(ctx, actorIDKey{}, actorID)
	return context.WithValue(ctx, actorRoleKey{}, role)
}

// ActorID returns the authenticated actor ID, or "" when unauthenticated.
func ActorID(ctx context.Context) string {
	v, _ := ctx.Value(actorIDKey{}).(string)
	return v
}

// ActorRole returns the authenticated actor's role, or "" when unset.
func ActorRole(ctx context.Context) string {
	v, _ := ctx.Value(actorRoleKey{}).(string)
	return v
}

// WithClientMetadata stores the client IP and a human-readable user agent
// summary for audit actor details.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

// ClientIP returns the client IP captured by the metadata middleware.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey{}).(string)
	return v
}

// UserAgent returns the user agent summary captured by the metadata
// middleware.
func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(userAgentKey{}).(string)
	return v
}

// WithAPIVersion records the API version the route was matched under.
func WithAPIVersion(ctx context.Context, v id.APIVersion) context.Context {
	return context.WithValue(ctx, apiVersionKey{}, v)
}

// APIVersion returns the route's API version, or the empty version when unset.
func APIVersion(ctx context.Context) id.APIVersion {
	v, _ := ctx.Value(apiVersionKey{}).(id.APIVersion)
	return v
}
