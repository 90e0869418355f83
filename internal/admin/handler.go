// Package admin exposes operator endpoints over the audit archive. The
// per-case export endpoint serves the active session; these routes read the
// durable archive, including cases whose sessions are long gone.
package admin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "caseline/pkg/domain-errors"
	audit "caseline/pkg/platform/audit"
	"caseline/pkg/platform/httputil"
	"caseline/pkg/requestcontext"
)

const maxRecentEvents = 1000

// Handler serves the archive browsing routes.
type Handler struct {
	archive audit.Store
	logger  *slog.Logger
}

// New creates an admin Handler over the audit archive.
func New(archive audit.Store, logger *slog.Logger) *Handler {
	return &Handler{archive: archive, logger: logger}
}

// Register mounts the admin routes. The caller is expected to guard them
// with the admin token middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/recent", h.handleRecent)
	r.Get("/audit/cases/{caseID}", h.handleCaseEvents)
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"))
			return
		}
		limit = min(parsed, maxRecentEvents)
	}

	events, err := h.archive.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "archive list failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

func (h *Handler) handleCaseEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID := chi.URLParam(r, "caseID")

	events, err := h.archive.ListByCase(ctx, caseID)
	if err != nil {
		h.logger.ErrorContext(ctx, "archive case lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"case_id": caseID,
		"events":  events,
		"count":   len(events),
	})
}
