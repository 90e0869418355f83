// Package metadata extracts client IP and a parsed User-Agent summary from
// incoming requests. The audit trail records both as actor details for human
// actions, so reviewers can tell a workstation sign-off from a script.
package metadata

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"caseline/pkg/requestcontext"
)

// ClientMetadata captures client IP and User-Agent into the request context.
// Apply early in the chain, before auth and handlers.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(
			r.Context(),
			ClientIPFromRequest(r),
			SummarizeUserAgent(r.Header.Get("User-Agent")),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SummarizeUserAgent reduces a raw User-Agent header to "Browser x.y on OS"
// for audit records. Non-browser agents (curl, SDK clients) fall through as
// the raw string, truncated to keep ledger entries bounded.
func SummarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name != "" && ua.OS() != "" {
		return fmt.Sprintf("%s %s on %s", name, version, ua.OS())
	}
	if len(raw) > 120 {
		return raw[:120]
	}
	return raw
}

// ClientIPFromRequest extracts the originating client IP, honoring proxy
// headers before falling back to the connection address.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First entry is the original client when multiple proxies append.
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if addr := r.RemoteAddr; addr != "" {
		// RemoteAddr is "ip:port"; IPv6 is "[::1]:port".
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return strings.Trim(addr[:idx], "[]")
		}
		return addr
	}
	return ""
}
