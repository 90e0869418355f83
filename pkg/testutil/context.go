package testutil

import (
	"net/http"
	"time"

	"caseline/pkg/requestcontext"
)

// WithActor stamps an actor identity on the request context, simulating what
// the auth middleware does for authenticated requests.
func WithActor(req *http.Request, actorID, role string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actorID, role))
}

// WithRequestID stamps a request ID on the request context.
func WithRequestID(req *http.Request, id string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), id))
}

// WithFrozenTime pins the request-scoped clock, so handlers that read
// requestcontext.Now see a deterministic timestamp.
func WithFrozenTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithClientMetadata stamps client IP and user agent on the request context.
func WithClientMetadata(req *http.Request, ip, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, userAgent))
}
