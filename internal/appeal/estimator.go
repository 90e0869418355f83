// Package appeal estimates the likelihood that a denied prior-authorization
// request would be overturned on appeal, and the cost of appeals the program
// avoids. Used once a denial has actually occurred; the pre-denial estimate
// ships with the scoring prediction instead.
//
// Pure domain logic - no I/O, no side effects. Inputs out of business range
// are clamped, never rejected.
package appeal

import "math"

// Fixed weights of the post-denial estimator. Documentation quality and
// criteria match dominate; specialty alignment matters least.
const (
	weightDocumentation = 0.25
	weightCriteria      = 0.25
	weightEngineScore   = 0.22
	weightHistorical    = 0.18
	weightSpecialty     = 0.10
)

// Inputs are the five signals of the post-denial estimator. All are
// percentages in [0, 100] except EngineScore, which is the 1-9 denial-risk
// score.
type Inputs struct {
	Documentation  float64 `json:"documentation_quality"`
	CriteriaMatch  float64 `json:"criteria_match"`
	EngineScore    float64 `json:"engine_score"`
	HistoricalRate float64 `json:"historical_approval_rate"`
	SpecialtyMatch float64 `json:"specialty_match"`
}

// OverturnProbability folds the five signals into a 0-100 likelihood,
// rounded to one decimal.
func OverturnProbability(in Inputs) float64 {
	doc := clamp(in.Documentation, 0, 100)
	criteria := clamp(in.CriteriaMatch, 0, 100)
	historical := clamp(in.HistoricalRate, 0, 100)
	specialty := clamp(in.SpecialtyMatch, 0, 100)

	// Rescale the 1-9 engine score onto the same percentage axis.
	score := clamp(in.EngineScore, 1, 9)
	scorePct := ((score - 1) / 8) * 100

	p := doc*weightDocumentation +
		criteria*weightCriteria +
		scorePct*weightEngineScore +
		historical*weightHistorical +
		specialty*weightSpecialty

	return round1(clamp(p, 0, 100))
}

// Savings quantifies what a count of prevented appeals is worth.
type Savings struct {
	AppealsPrevented int     `json:"appeals_prevented"`
	DirectCost       float64 `json:"direct_cost_usd"`
	StaffHours       float64 `json:"staff_hours"`
}

// Average fully loaded cost of working one appeal, and the analyst hours it
// consumes.
const (
	costPerAppeal  = 127.0
	hoursPerAppeal = 2.5
)

// CostSavings computes the avoided spend for a count of prevented appeals.
// Negative counts read as zero.
func CostSavings(appealsPrevented int) Savings {
	if appealsPrevented < 0 {
		appealsPrevented = 0
	}
	return Savings{
		AppealsPrevented: appealsPrevented,
		DirectCost:       float64(appealsPrevented) * costPerAppeal,
		StaffHours:       round1(float64(appealsPrevented) * hoursPerAppeal),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
