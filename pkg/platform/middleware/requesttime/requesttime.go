// Package requesttime pins a single "now" per HTTP request. Deadline
// classification, audit timestamps, and eligibility projections all read this
// value so one request never observes two different clocks.
package requesttime

import (
	"net/http"
	"time"

	"caseline/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and
// stores it in the context for every downstream computation.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
