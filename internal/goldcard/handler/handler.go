package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"caseline/internal/goldcard"
	dErrors "caseline/pkg/domain-errors"
	"caseline/pkg/platform/httputil"
	"caseline/pkg/requestcontext"
)

// Handler exposes the gold card eligibility evaluator.
type Handler struct {
	logger *slog.Logger
}

// New creates a gold card Handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts the gold card routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/goldcard/evaluate", h.handleEvaluate)
	r.Get("/goldcard/thresholds/{payerID}", h.handleThreshold)
}

// EvaluateRequest is the HTTP body for POST /v1/goldcard/evaluate.
type EvaluateRequest struct {
	PayerID      string    `json:"payer_id"`
	ApprovalRate float64   `json:"approval_rate"`
	OrderCount   int       `json:"order_count"`
	RateHistory  []float64 `json:"rate_history,omitempty"`
}

// Validate checks the provider stats. The approval rate is a percentage.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.ApprovalRate < 0 || r.ApprovalRate > 100 {
		return dErrors.New(dErrors.CodeValidation, "approval_rate must be between 0 and 100")
	}
	if r.OrderCount < 0 {
		return dErrors.New(dErrors.CodeValidation, "order_count must not be negative")
	}
	return nil
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	status := goldcard.Evaluate(req.ApprovalRate, req.OrderCount, req.PayerID, req.RateHistory, requestcontext.Now(ctx))

	h.logger.InfoContext(ctx, "gold card evaluated",
		"request_id", requestID,
		"payer", status.Payer.PayerKey,
		"eligible", status.Eligible,
	)

	httputil.WriteJSON(w, http.StatusOK, status)
}

// handleThreshold returns the published bar for one payer, resolving
// unrecognized payers to the default program rules.
func (h *Handler) handleThreshold(w http.ResponseWriter, r *http.Request) {
	payerID := strings.TrimSpace(chi.URLParam(r, "payerID"))
	resolution := goldcard.ResolvePayer(payerID)

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"payer_id":   payerID,
		"resolution": resolution,
		"threshold":  goldcard.ThresholdFor(resolution.PayerKey),
	})
}
