package goldcard

import (
	"math"
	"time"
)

// Evaluate produces the gold-card verdict for one provider/payer pair.
// rate is the provider's approval rate in percent over the payer's lookback
// window, orders the order count in the same window, history the
// chronological monthly approval rates. now anchors the eligibility
// projection and must be supplied by the caller.
func Evaluate(rate float64, orders int, payerID string, history []float64, now time.Time) Status {
	rate = clamp(rate, 0, 100)
	if orders < 0 {
		orders = 0
	}

	resolution := ResolvePayer(payerID)
	threshold := ThresholdFor(resolution.PayerKey)

	metRate := rate >= threshold.ApprovalRate
	metOrders := orders >= threshold.MinOrderCount

	gapToRate := round1(math.Max(0, threshold.ApprovalRate-rate))
	gapToOrders := threshold.MinOrderCount - orders
	if gapToOrders < 0 {
		gapToOrders = 0
	}

	trend := TrendOf(history)

	return Status{
		Payer:               resolution,
		Threshold:           threshold,
		ApprovalRate:        rate,
		OrderCount:          orders,
		MetRate:             metRate,
		MetOrders:           metOrders,
		Eligible:            metRate && metOrders,
		GapToRate:           gapToRate,
		GapToOrders:         gapToOrders,
		Trend:               trend,
		ProjectedEligibleAt: projectEligibility(rate, threshold, trend, history, now),
	}
}

// TrendOf classifies a chronological rate history by comparing the mean of
// the last three points against the mean of the three before them. Histories
// too short to form both windows read as stable.
func TrendOf(history []float64) Trend {
	n := len(history)
	if n < 2 {
		return TrendStable
	}

	recentStart := n - 3
	if recentStart < 0 {
		recentStart = 0
	}
	priorStart := n - 6
	if priorStart < 0 {
		priorStart = 0
	}

	prior := history[priorStart:recentStart]
	if len(prior) == 0 {
		return TrendStable
	}

	diff := mean(history[recentStart:]) - mean(prior)
	switch {
	case diff > 1:
		return TrendImproving
	case diff < -1:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// projectEligibility estimates when an improving provider crosses the rate
// bar. No projection exists for providers already at the bar or not
// improving. The monthly gain comes from the two most recent history points,
// floored at half a point per month so one hot month cannot promise
// eligibility next week.
func projectEligibility(rate float64, threshold Threshold, trend Trend, history []float64, now time.Time) *time.Time {
	if rate >= threshold.ApprovalRate || trend != TrendImproving {
		return nil
	}
	if len(history) < 2 {
		return nil
	}

	gain := history[len(history)-1] - history[len(history)-2]
	if gain < 0.5 {
		gain = 0.5
	}

	months := int(math.Ceil((threshold.ApprovalRate - rate) / gain))
	projected := now.AddDate(0, months, 0)
	return &projected
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
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
