package handler

import (
	"time"

	"caseline/internal/compliance"
	"caseline/internal/session"
)

// CaseResponse summarizes a registered case.
type CaseResponse struct {
	CaseID     string    `json:"case_id"`
	PayerID    string    `json:"payer_id,omitempty"`
	Modality   string    `json:"modality"`
	Urgency    string    `json:"urgency"`
	ReceivedAt time.Time `json:"received_at"`
	CreatedAt  time.Time `json:"created_at"`
	Deadline   time.Time `json:"deadline"`
	Complete   bool      `json:"audit_complete"`
}

func toCaseResponse(s *session.Session) CaseResponse {
	return CaseResponse{
		CaseID:     s.ID.String(),
		PayerID:    s.Request.PayerID,
		Modality:   s.Request.Modality,
		Urgency:    string(s.Request.Urgency),
		ReceivedAt: s.Request.ReceivedAt,
		CreatedAt:  s.CreatedAt,
		Deadline:   s.Deadline.Deadline(),
		Complete:   s.Ledger.IsComplete(),
	}
}

// ComplianceResponse carries a deadline poll result.
type ComplianceResponse struct {
	CaseID string                    `json:"case_id"`
	Status compliance.DeadlineStatus `json:"status"`
}
