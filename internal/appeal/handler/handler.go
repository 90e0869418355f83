package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"caseline/internal/appeal"
	dErrors "caseline/pkg/domain-errors"
	"caseline/pkg/platform/httputil"
	"caseline/pkg/requestcontext"
)

// Handler exposes the post-denial appeal estimator.
type Handler struct {
	logger *slog.Logger
}

// New creates an appeal Handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts the appeal routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/appeal/estimate", h.handleEstimate)
	r.Post("/appeal/savings", h.handleSavings)
}

// EstimateRequest is the HTTP body for POST /v1/appeal/estimate.
type EstimateRequest struct {
	appeal.Inputs
}

// Validate rejects non-numeric junk only; out-of-range signals are clamped
// by the estimator.
func (r *EstimateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

// SavingsRequest is the HTTP body for POST /v1/appeal/savings.
type SavingsRequest struct {
	AppealsPrevented int `json:"appeals_prevented"`
}

// Validate accepts any count; negatives read as zero downstream.
func (r *SavingsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[EstimateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	probability := appeal.OverturnProbability(req.Inputs)

	h.logger.InfoContext(ctx, "appeal estimate computed",
		"request_id", requestID,
		"overturn_probability", probability,
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"overturn_probability": probability,
		"inputs":               req.Inputs,
	})
}

func (h *Handler) handleSavings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SavingsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, appeal.CostSavings(req.AppealsPrevented))
}
