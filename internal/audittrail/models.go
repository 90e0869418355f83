// Package audittrail keeps the append-only ledger of everything computed or
// decided against one prior-authorization case: scoring runs, workflow
// transitions, human sign-offs. Entries are immutable once appended; the only
// way back to a clean slate is an explicit full reset.
package audittrail

import (
	"time"

	id "caseline/pkg/domain"
)

// Actor identifies who performed a recorded action.
type Actor string

const (
	ActorSystem Actor = "system"
	ActorAI     Actor = "ai"
	ActorHuman  Actor = "human"
)

// AIInvolvement records the model behind an AI-attributed action so the
// trail can answer "which model said what, and how sure was it".
type AIInvolvement struct {
	Model          string  `json:"model"`
	Confidence     float64 `json:"confidence"`
	Recommendation string  `json:"recommendation"`
}

// Entry is one immutable ledger record.
type Entry struct {
	ID           id.EntryID     `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Action       string         `json:"action"`
	Actor        Actor          `json:"actor"`
	ActorDetails string         `json:"actor_details,omitempty"`
	Payload      map[string]any `json:"payload,omitempty"`
	AI           *AIInvolvement `json:"ai_involvement,omitempty"`
}

// CheckStatus is the state of one workflow compliance check.
type CheckStatus string

const (
	CheckPass    CheckStatus = "pass"
	CheckFail    CheckStatus = "fail"
	CheckPending CheckStatus = "na"
)

// Check is one compliance checkbox the workflow completes as a case moves
// through review. Checks are mutated in place; the ledger entries are not.
type Check struct {
	ID     string      `json:"id"`
	Rule   string      `json:"rule"`
	Status CheckStatus `json:"status"`
}

// Default check IDs required before a case may close.
const (
	CheckDocReview     = "doc-review"
	CheckCriteriaMatch = "criteria-match"
	CheckHumanSignOff  = "human-sign-off"
)

func defaultChecks() []Check {
	return []Check{
		{ID: CheckDocReview, Rule: "Clinical documentation reviewed", Status: CheckPending},
		{ID: CheckCriteriaMatch, Rule: "Medical-necessity criteria matched", Status: CheckPending},
		{ID: CheckHumanSignOff, Rule: "Human reviewer signed off on the determination", Status: CheckPending},
	}
}

// Report is an export-time snapshot of the ledger: copies of entries and
// checks plus derived counts, computed freshly on every export.
type Report struct {
	ExportedAt     time.Time     `json:"exported_at"`
	Entries        []Entry       `json:"entries"`
	Checks         []Check       `json:"checks"`
	EntriesByActor map[Actor]int `json:"entries_by_actor"`
	ChecksPassed   int           `json:"checks_passed"`
	ChecksFailed   int           `json:"checks_failed"`
	Complete       bool          `json:"complete"`
}
