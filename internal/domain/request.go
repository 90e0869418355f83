// Package domain holds the shared business records of the prior-authorization
// engine. PARequest is the immutable intake record every evaluator consumes;
// modules keep their own result models next to their logic.
package domain

import (
	"strings"
	"time"

	id "caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
)

// Urgency classifies how fast a determination is owed.
type Urgency string

const (
	UrgencyRoutine  Urgency = "routine"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyEmergent Urgency = "emergent"
)

// ParseUrgency validates an urgency label.
func ParseUrgency(s string) (Urgency, error) {
	switch Urgency(strings.ToLower(strings.TrimSpace(s))) {
	case UrgencyRoutine:
		return UrgencyRoutine, nil
	case UrgencyUrgent:
		return UrgencyUrgent, nil
	case UrgencyEmergent:
		return UrgencyEmergent, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "urgency must be routine, urgent, or emergent")
	}
}

// Expedited reports whether the request falls in the short decision window.
// Emergent cases share the urgent window; they never get more time.
func (u Urgency) Expedited() bool {
	return u == UrgencyUrgent || u == UrgencyEmergent
}

// OrderingProvider is the profile of the clinician who placed the order,
// including the approval history the gold-card evaluator consumes.
type OrderingProvider struct {
	NPI          string
	Name         string
	Specialty    string
	ApprovalRate float64   // historical approval rate, 0..1
	OrderCount   int       // orders in the gold-card lookback window
	RateHistory  []float64 // chronological monthly approval rates, percent
}

// PriorImaging is one prior study on file for the member.
type PriorImaging struct {
	Study       string
	PerformedAt time.Time
	Relevant    bool // clinically relevant to the current indication
}

// PARequest is one prior-authorization request as supplied at intake.
// It is immutable: evaluators read it, nothing mutates it.
type PARequest struct {
	CaseID             id.CaseID
	PayerID            string
	MemberID           string
	Modality           string
	DiagnosisCode      string
	ClinicalIndication string
	Provider           OrderingProvider
	Urgency            Urgency
	ReceivedAt         time.Time

	// Optional clinical context. Absent slices are treated as empty.
	PriorImaging           []PriorImaging
	RedFlags               []string
	ConservativeTreatments []string
}

// Validate enforces construction-time contracts. Business values that are
// merely out of range are clamped by the evaluators, never rejected here.
func (r *PARequest) Validate() error {
	if r.CaseID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "case id is required")
	}
	if strings.TrimSpace(r.Modality) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "modality is required")
	}
	if strings.TrimSpace(r.DiagnosisCode) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "diagnosis code is required")
	}
	switch r.Urgency {
	case UrgencyRoutine, UrgencyUrgent, UrgencyEmergent:
	default:
		return dErrors.New(dErrors.CodeInvariantViolation, "urgency is required")
	}
	return nil
}

// RelevantPriorImaging counts prior studies flagged clinically relevant.
func (r *PARequest) RelevantPriorImaging() int {
	n := 0
	for _, p := range r.PriorImaging {
		if p.Relevant {
			n++
		}
	}
	return n
}
