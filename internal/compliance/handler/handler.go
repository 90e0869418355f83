package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"caseline/internal/compliance"
	"caseline/internal/domain"
	dErrors "caseline/pkg/domain-errors"
	"caseline/pkg/platform/httputil"
	"caseline/pkg/requestcontext"
)

// Handler exposes the stateless compliance checks. Deadline polling for a
// registered case lives with the case routes; these endpoints serve ad hoc
// evaluation without a session.
type Handler struct {
	logger *slog.Logger
}

// New creates a compliance Handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts the compliance routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/compliance/state-check", h.handleStateCheck)
	r.Post("/compliance/deadline", h.handleDeadline)
	r.Get("/compliance/states", h.handleKnownStates)
}

// StateCheckRequest is the HTTP body for POST /v1/compliance/state-check.
type StateCheckRequest struct {
	State    string              `json:"state"`
	Decision compliance.Decision `json:"decision"`
}

// Validate checks the state code shape. Unknown states are still accepted;
// the checker reports them as not applicable.
func (r *StateCheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.State = strings.ToUpper(strings.TrimSpace(r.State))
	if r.State == "" {
		return dErrors.New(dErrors.CodeValidation, "state is required")
	}
	return nil
}

// DeadlineRequest is the HTTP body for POST /v1/compliance/deadline.
type DeadlineRequest struct {
	ReceivedAt string `json:"received_at"`
	Urgency    string `json:"urgency"`

	receivedAt time.Time
	urgency    domain.Urgency
}

// Validate parses the timestamps.
func (r *DeadlineRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	urgency, err := domain.ParseUrgency(r.Urgency)
	if err != nil {
		return err
	}
	receivedAt, err := time.Parse(time.RFC3339, r.ReceivedAt)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "received_at must be RFC 3339")
	}
	r.urgency = urgency
	r.receivedAt = receivedAt
	return nil
}

func (h *Handler) handleStateCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[StateCheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := compliance.CheckState(req.State, req.Decision)

	h.logger.InfoContext(ctx, "state law checked",
		"request_id", requestID,
		"state", req.State,
		"status", result.Status,
		"gaps", len(result.Gaps),
	)

	httputil.WriteJSON(w, http.StatusOK, result)
}

// handleDeadline evaluates the turnaround posture for an arbitrary intake
// timestamp, without a registered case.
func (h *Handler) handleDeadline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DeadlineRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	status := compliance.Track(req.receivedAt, req.urgency, requestcontext.Now(ctx))
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) handleKnownStates(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"states": compliance.KnownStates(),
	})
}
