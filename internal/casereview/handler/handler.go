package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"caseline/internal/casereview"
	id "caseline/pkg/domain"
	"caseline/pkg/platform/httputil"
	"caseline/pkg/requestcontext"
)

// Handler exposes the scoring and combined review endpoints.
type Handler struct {
	reviews *casereview.Service
	logger  *slog.Logger
}

// New creates a review Handler.
func New(reviews *casereview.Service, logger *slog.Logger) *Handler {
	return &Handler{reviews: reviews, logger: logger}
}

// Register mounts the review routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/cases/{caseID}/score", h.handleScore)
	r.Post("/cases/{caseID}/review", h.handleReview)
}

// handleScore runs the denial risk scorer against a registered case.
func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	prediction, err := h.reviews.Score(ctx, caseID)
	if err != nil {
		h.logger.WarnContext(ctx, "scoring failed",
			"request_id", requestcontext.RequestID(ctx),
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, prediction)
}

// handleReview runs all evaluators and returns the combined result.
func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.reviews.Review(ctx, caseID)
	if err != nil {
		h.logger.WarnContext(ctx, "case review failed",
			"request_id", requestcontext.RequestID(ctx),
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
