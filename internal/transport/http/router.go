// Package httptransport assembles the HTTP surface: middleware chain,
// health and metrics endpoints, and the versioned API routes. Handlers
// delegate to domain services; no business logic lives here.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "caseline/internal/admin"
	appealhandler "caseline/internal/appeal/handler"
	casereviewhandler "caseline/internal/casereview/handler"
	compliancehandler "caseline/internal/compliance/handler"
	goldcardhandler "caseline/internal/goldcard/handler"
	sessionhandler "caseline/internal/session/handler"
	id "caseline/pkg/domain"
	"caseline/pkg/platform/httputil"
	"caseline/pkg/platform/middleware/admin"
	"caseline/pkg/platform/middleware/auth"
	"caseline/pkg/platform/middleware/metadata"
	"caseline/pkg/platform/middleware/ratelimit"
	"caseline/pkg/platform/middleware/requesttime"
	"caseline/pkg/platform/middleware/version"
	"caseline/pkg/requestcontext"
)

// Handlers are the per-module route registrars.
type Handlers struct {
	Cases      *sessionhandler.Handler
	Reviews    *casereviewhandler.Handler
	Appeals    *appealhandler.Handler
	GoldCard   *goldcardhandler.Handler
	Compliance *compliancehandler.Handler
	Admin      *adminhandler.Handler
}

// Options carry the cross-cutting pieces of the router.
type Options struct {
	Logger     *slog.Logger
	Validator  *auth.Validator
	Limiter    ratelimit.Limiter
	AdminToken string
}

// NewRouter wires the full API. Health and metrics stay outside the
// authenticated group.
func NewRouter(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Health and metrics stay out of the request log.
	r.Route("/v1", func(r chi.Router) {
		r.Use(version.ExtractVersion(id.APIVersionV1))
		r.Use(requestLogger(opts.Logger))
		if opts.Limiter != nil {
			r.Use(ratelimit.Middleware(opts.Limiter, opts.Logger))
		}
		if opts.Validator != nil {
			r.Use(auth.Middleware(opts.Validator))
		}

		h.Cases.Register(r)
		h.Reviews.Register(r)
		h.Appeals.Register(r)
		h.GoldCard.Register(r)
		h.Compliance.Register(r)
	})

	if h.Admin != nil && opts.AdminToken != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(requestLogger(opts.Logger))
			r.Use(admin.RequireAdminToken(opts.AdminToken, opts.Logger))
			h.Admin.Register(r)
		})
	}

	return r
}

// requestLogger emits one structured line per request after it completes.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			ctx := r.Context()
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", requestcontext.RequestID(ctx),
			}
			if v := requestcontext.APIVersion(ctx); !v.IsNil() {
				attrs = append(attrs, "api_version", v.String())
			}
			logger.InfoContext(ctx, "request handled", attrs...)
		})
	}
}

// requestID assigns every request an ID and echoes it back to the caller.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
