package handler

import (
	"strings"
	"time"

	"caseline/internal/audittrail"
	"caseline/internal/domain"
	id "caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
	strx "caseline/pkg/platform/strings"
)

// CreateCaseRequest is the HTTP body for POST /v1/cases.
type CreateCaseRequest struct {
	CaseID             string   `json:"case_id,omitempty"`
	PayerID            string   `json:"payer_id"`
	MemberID           string   `json:"member_id"`
	Modality           string   `json:"modality"`
	DiagnosisCode      string   `json:"diagnosis_code"`
	ClinicalIndication string   `json:"clinical_indication"`
	Urgency            string   `json:"urgency"`
	ReceivedAt         string   `json:"received_at,omitempty"`
	RedFlags           []string `json:"red_flags,omitempty"`
	ConservativeTx     []string `json:"conservative_treatments,omitempty"`

	Provider struct {
		NPI          string    `json:"npi"`
		Name         string    `json:"name"`
		Specialty    string    `json:"specialty"`
		ApprovalRate float64   `json:"approval_rate"`
		OrderCount   int       `json:"order_count"`
		RateHistory  []float64 `json:"rate_history,omitempty"`
	} `json:"provider"`

	PriorImaging []struct {
		Study       string `json:"study"`
		PerformedAt string `json:"performed_at,omitempty"`
		Relevant    bool   `json:"relevant"`
	} `json:"prior_imaging,omitempty"`

	parsed *domain.PARequest
}

// Validate parses the intake body into a PARequest. A missing case ID gets
// a generated one; out-of-range business values pass through to be clamped
// by the evaluators.
func (r *CreateCaseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	caseID := id.NewCaseID()
	if strings.TrimSpace(r.CaseID) != "" {
		parsed, err := id.ParseCaseID(r.CaseID)
		if err != nil {
			return err
		}
		caseID = parsed
	}

	urgency, err := domain.ParseUrgency(r.Urgency)
	if err != nil {
		return err
	}

	var receivedAt time.Time
	if r.ReceivedAt != "" {
		receivedAt, err = time.Parse(time.RFC3339, r.ReceivedAt)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "received_at must be RFC 3339")
		}
	}

	req := &domain.PARequest{
		CaseID:                 caseID,
		PayerID:                strings.TrimSpace(r.PayerID),
		MemberID:               strings.TrimSpace(r.MemberID),
		Modality:               strings.TrimSpace(r.Modality),
		DiagnosisCode:          strings.TrimSpace(r.DiagnosisCode),
		ClinicalIndication:     strings.TrimSpace(r.ClinicalIndication),
		Urgency:                urgency,
		ReceivedAt:             receivedAt,
		RedFlags:               strx.DedupeAndTrim(r.RedFlags),
		ConservativeTreatments: strx.DedupeAndTrim(r.ConservativeTx),
		Provider: domain.OrderingProvider{
			NPI:          strings.TrimSpace(r.Provider.NPI),
			Name:         strings.TrimSpace(r.Provider.Name),
			Specialty:    strings.TrimSpace(r.Provider.Specialty),
			ApprovalRate: r.Provider.ApprovalRate,
			OrderCount:   r.Provider.OrderCount,
			RateHistory:  r.Provider.RateHistory,
		},
	}

	for _, p := range r.PriorImaging {
		img := domain.PriorImaging{Study: p.Study, Relevant: p.Relevant}
		if p.PerformedAt != "" {
			ts, err := time.Parse(time.RFC3339, p.PerformedAt)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeValidation, "prior_imaging.performed_at must be RFC 3339")
			}
			img.PerformedAt = ts
		}
		req.PriorImaging = append(req.PriorImaging, img)
	}

	if err := req.Validate(); err != nil {
		return err
	}
	r.parsed = req
	return nil
}

// Parsed returns the validated intake record.
func (r *CreateCaseRequest) Parsed() *domain.PARequest { return r.parsed }

// AddEntryRequest is the HTTP body for POST /v1/cases/{caseID}/audit/entries.
type AddEntryRequest struct {
	Action       string         `json:"action"`
	Actor        string         `json:"actor"`
	ActorDetails string         `json:"actor_details,omitempty"`
	Payload      map[string]any `json:"payload,omitempty"`

	AI *struct {
		Model          string  `json:"model"`
		Confidence     float64 `json:"confidence"`
		Recommendation string  `json:"recommendation"`
	} `json:"ai_involvement,omitempty"`

	parsedOpts audittrail.EntryOptions
}

// Validate checks the entry attribution.
func (r *AddEntryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Action = strings.TrimSpace(r.Action)
	if r.Action == "" {
		return dErrors.New(dErrors.CodeValidation, "action is required")
	}

	actor := audittrail.Actor(strings.ToLower(strings.TrimSpace(r.Actor)))
	if actor == "" {
		actor = audittrail.ActorHuman
	}
	switch actor {
	case audittrail.ActorSystem, audittrail.ActorAI, audittrail.ActorHuman:
	default:
		return dErrors.New(dErrors.CodeValidation, "actor must be system, ai, or human")
	}

	r.parsedOpts = audittrail.EntryOptions{Actor: actor, ActorDetails: r.ActorDetails}
	if r.AI != nil {
		r.parsedOpts.AI = &audittrail.AIInvolvement{
			Model:          r.AI.Model,
			Confidence:     r.AI.Confidence,
			Recommendation: r.AI.Recommendation,
		}
	}
	return nil
}

// ParsedOptions returns the validated entry options.
func (r *AddEntryRequest) ParsedOptions() audittrail.EntryOptions { return r.parsedOpts }

// SetCheckRequest is the HTTP body for PUT /v1/cases/{caseID}/audit/checks/{checkID}.
type SetCheckRequest struct {
	Status string `json:"status"`

	parsedStatus audittrail.CheckStatus
}

// Validate checks the status label.
func (r *SetCheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	status := audittrail.CheckStatus(strings.ToLower(strings.TrimSpace(r.Status)))
	switch status {
	case audittrail.CheckPass, audittrail.CheckFail, audittrail.CheckPending:
	default:
		return dErrors.New(dErrors.CodeValidation, "status must be pass, fail, or na")
	}
	r.parsedStatus = status
	return nil
}

// ParsedStatus returns the validated check status.
func (r *SetCheckRequest) ParsedStatus() audittrail.CheckStatus { return r.parsedStatus }
