package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"caseline/internal/session"
	id "caseline/pkg/domain"
	"caseline/pkg/platform/httputil"
	"caseline/pkg/requestcontext"
)

// Handler exposes case lifecycle and audit trail endpoints.
type Handler struct {
	sessions *session.Service
	logger   *slog.Logger
}

// New creates a case Handler.
func New(sessions *session.Service, logger *slog.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

// Register mounts the case routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/cases", func(r chi.Router) {
		r.Post("/", h.handleCreateCase)
		r.Route("/{caseID}", func(r chi.Router) {
			r.Get("/", h.handleGetCase)
			r.Get("/compliance", h.handlePollCompliance)
			r.Route("/audit", func(r chi.Router) {
				r.Post("/entries", h.handleAddEntry)
				r.Get("/export", h.handleExport)
				r.Post("/reset", h.handleReset)
				r.Put("/checks/{checkID}", h.handleSetCheck)
			})
		})
	})
}

func caseIDFromRequest(r *http.Request) (id.CaseID, error) {
	return id.ParseCaseID(chi.URLParam(r, "caseID"))
}

// handleCreateCase registers a prior authorization case for review.
func (h *Handler) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateCaseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sess, err := h.sessions.CreateCase(ctx, req.Parsed())
	if err != nil {
		h.logger.WarnContext(ctx, "case creation rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toCaseResponse(sess))
}

func (h *Handler) handleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := caseIDFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sess, err := h.sessions.Get(caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCaseResponse(sess))
}

// handleAddEntry appends a manual entry to the case's audit trail.
func (h *Handler) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caseID, err := caseIDFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[AddEntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entry, err := h.sessions.RecordEntry(ctx, caseID, req.Action, req.Payload, req.ParsedOptions())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, entry)
}

// handleExport returns a point-in-time snapshot of the audit trail.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	caseID, err := caseIDFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.sessions.Export(r.Context(), caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}

// handleReset discards the trail and restores the default pending checks.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	caseID, err := caseIDFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.sessions.Reset(r.Context(), caseID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caseID, err := caseIDFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetCheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	checkID := chi.URLParam(r, "checkID")
	if err := h.sessions.SetCheck(ctx, caseID, checkID, req.ParsedStatus()); err != nil {
		httputil.WriteError(w, err)
		return
	}

	complete, err := h.sessions.IsComplete(caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"case_id":        caseID.String(),
		"check_id":       checkID,
		"status":         req.ParsedStatus(),
		"audit_complete": complete,
	})
}

// handlePollCompliance reports the turnaround deadline posture for the case.
func (h *Handler) handlePollCompliance(w http.ResponseWriter, r *http.Request) {
	caseID, err := caseIDFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	status, err := h.sessions.PollCompliance(r.Context(), caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ComplianceResponse{CaseID: caseID.String(), Status: status})
}
