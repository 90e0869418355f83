// Package audit is the archival side of the audit trail. The per-case ledger
// in internal/audittrail is the source of truth while a case is in flight;
// every append is mirrored here as an Event so completed trails survive the
// session and compliance consumers can follow them downstream.
package audit

import "time"

// EventCategory classifies archive events by their primary purpose, which
// drives retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance:
	// determinations, sign-offs, resets. Long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine activity useful for debugging:
	// deadline polls, exports. Short retention, may be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is one archived audit record. Transport-agnostic so stores and
// publishers can fan out.
type Event struct {
	ID           string        `json:"id"`
	Category     EventCategory `json:"category"`
	Timestamp    time.Time     `json:"timestamp"`
	CaseID       string        `json:"case_id"`
	Action       string        `json:"action"`
	Actor        string        `json:"actor"`
	ActorDetails string        `json:"actor_details,omitempty"`
	RequestID    string        `json:"request_id,omitempty"`
	Model        string        `json:"model,omitempty"`
	Detail       string        `json:"detail,omitempty"`
}

// Well-known archive actions emitted by the services.
const (
	ActionCaseCreated       = "case_created"
	ActionRiskScored        = "risk_scored"
	ActionCaseReviewed      = "case_reviewed"
	ActionAppealEstimated   = "appeal_estimated"
	ActionGoldCardEvaluated = "goldcard_evaluated"
	ActionCompliancePolled  = "compliance_polled"
	ActionStateLawChecked   = "state_law_checked"
	ActionCheckUpdated      = "check_updated"
	ActionTrailReset        = "trail_reset"
	ActionTrailExported     = "trail_exported"
)

// eventCategories maps well-known actions onto categories. Workflow actions
// recorded by humans default to compliance: when in doubt, retain.
var eventCategories = map[string]EventCategory{
	ActionCaseCreated:       CategoryCompliance,
	ActionRiskScored:        CategoryCompliance,
	ActionCaseReviewed:      CategoryCompliance,
	ActionAppealEstimated:   CategoryCompliance,
	ActionGoldCardEvaluated: CategoryCompliance,
	ActionStateLawChecked:   CategoryCompliance,
	ActionCheckUpdated:      CategoryCompliance,
	ActionTrailReset:        CategoryCompliance,
	ActionCompliancePolled:  CategoryOperations,
	ActionTrailExported:     CategoryOperations,
}

// CategoryOf returns the category for an action.
func CategoryOf(action string) EventCategory {
	if c, ok := eventCategories[action]; ok {
		return c
	}
	return CategoryCompliance
}
