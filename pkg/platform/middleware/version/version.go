// Package version stamps the matched API version into the request
// context. Chi's route match already fixed the version, so the
// middleware only records it for request logs and audit attribution.
package version

import (
	"net/http"

	id "caseline/pkg/domain"
	"caseline/pkg/requestcontext"
)

// ExtractVersion returns middleware that records version on every
// request passing through the subrouter it is mounted on.
func ExtractVersion(version id.APIVersion) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithAPIVersion(r.Context(), version)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
