// Package goldcard decides whether an ordering provider has earned a
// prior-authorization bypass with a payer: a sustained approval rate over a
// lookback window with enough order volume behind it. Pure domain logic -
// no I/O, no side effects.
package goldcard

import "time"

// Threshold is one payer's gold-card bar.
type Threshold struct {
	ApprovalRate   float64 `json:"approval_rate"` // percent
	LookbackMonths int     `json:"lookback_months"`
	MinOrderCount  int     `json:"min_order_count"`
}

// Trend classifies the direction of a provider's recent approval-rate
// history.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Resolution reports how a free-text payer identifier mapped onto the
// threshold table. Fallback means the identifier was unrecognized and the
// default entry applies; callers can surface that instead of silently
// trusting the verdict.
type Resolution struct {
	PayerKey string `json:"payer_key"`
	Fallback bool   `json:"fallback"`
}

// Status is the full gold-card verdict. Both sub-conditions and both gaps
// are always populated, even when already met (gap 0). Eligible is the
// logical AND of MetRate and MetOrders - never true on one condition alone.
type Status struct {
	Payer     Resolution `json:"payer"`
	Threshold Threshold  `json:"threshold"`

	ApprovalRate float64 `json:"approval_rate"` // percent, as evaluated
	OrderCount   int     `json:"order_count"`

	MetRate   bool `json:"met_rate"`
	MetOrders bool `json:"met_orders"`
	Eligible  bool `json:"eligible"`

	GapToRate   float64 `json:"gap_to_rate"`
	GapToOrders int     `json:"gap_to_orders"`

	Trend               Trend      `json:"trend"`
	ProjectedEligibleAt *time.Time `json:"projected_eligible_at,omitempty"`
}
