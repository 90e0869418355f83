// Package scoring computes the denial-risk prediction for a
// prior-authorization request: a 1-9 score built from weighted clinical and
// historical factors, the review action that score implies, and an
// explainable factor breakdown.
//
// Everything in this package is pure domain logic - no I/O, no side effects.
// The service wrapper adds logging, metrics, and audit emission.
package scoring

import "time"

// RiskCategory buckets the denial-risk score. The naming follows the payer
// convention: it is the risk of the request being denied on first pass, so a
// high score (well-supported request) lands in the low-risk bucket.
type RiskCategory string

const (
	RiskHigh   RiskCategory = "high_risk"
	RiskMedium RiskCategory = "medium_risk"
	RiskLow    RiskCategory = "low_risk"
)

// RecommendedAction is the routing the score implies for the review queue.
type RecommendedAction string

const (
	ActionAutoApprove    RecommendedAction = "AUTO_APPROVE"
	ActionClinicalReview RecommendedAction = "CLINICAL_REVIEW"
	ActionLikelyApprove  RecommendedAction = "LIKELY_APPROVE"
)

// DiagnosisSpecificity is the coding granularity of the diagnosis.
// Moderate deliberately moves nothing and emits no factor, but it stays a
// distinct state: explanation text treats "coded to one decimal" differently
// from "not coded past the category".
type DiagnosisSpecificity string

const (
	SpecificityNonspecific DiagnosisSpecificity = "nonspecific"
	SpecificityModerate    DiagnosisSpecificity = "moderate"
	SpecificitySpecific    DiagnosisSpecificity = "specific"
)

// Factor is one named, weighted contributor to a prediction. Contribution is
// a signed normalized weight in [-1, 1] explaining the score in the manner of
// additive feature attribution. The struct is closed: every factor carries
// exactly these fields.
type Factor struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
	Value        string  `json:"value"`
	Explanation  string  `json:"explanation"`
	Citation     string  `json:"citation,omitempty"`
}

// Cited reports whether the factor references a literature source.
func (f Factor) Cited() bool { return f.Citation != "" }

// Prediction is the full output of one scoring call. Computed fresh per
// call; callers receive their own copy and nothing is cached or mutated
// afterwards.
type Prediction struct {
	Score               float64              `json:"denial_risk_score"` // 1..9, one decimal
	Category            RiskCategory         `json:"risk_category"`
	Action              RecommendedAction    `json:"recommended_action"`
	OverturnProbability float64              `json:"appeal_overturn_probability"` // 1..99, two decimals
	Confidence          int                  `json:"confidence_score"`            // 60..95
	Specificity         DiagnosisSpecificity `json:"diagnosis_specificity"`
	Factors             []Factor             `json:"factors"` // sorted by |contribution| desc
	Citations           []string             `json:"citations"`
	ProcessingTime      time.Duration        `json:"processing_time_ns"`
}
