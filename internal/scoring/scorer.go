package scoring

import (
	"math"
	"sort"
	"time"

	"caseline/internal/domain"
)

const (
	baselineScore = 5.0
	minScore      = 1.0
	maxScore      = 9.0

	minOverturnProbability = 1.0
	maxOverturnProbability = 99.0

	baseConfidence      = 60
	confidencePerSource = 5
	maxConfidence       = 95
)

// Scorer folds extracted factors into a denial-risk prediction. All weights
// are fixed constants; no model is invoked.
type Scorer struct {
	rates map[string]float64
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithModalityOverturnRates overrides the modality overturn-rate table.
// Intended for tests and for payers that supply their own outcome data.
func WithModalityOverturnRates(rates map[string]float64) Option {
	return func(s *Scorer) {
		if rates != nil {
			s.rates = rates
		}
	}
}

// NewScorer constructs a scorer with the default modality table.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{rates: defaultModalityOverturnRates}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score produces a prediction for one request. Pure and deterministic apart
// from the recorded processing latency; safe to call repeatedly.
func (s *Scorer) Score(req *domain.PARequest) Prediction {
	start := time.Now()

	ex := extractFactors(req, s.rates)

	score := round1(clamp(baselineScore+ex.delta, minScore, maxScore))
	category, action := classify(score)

	factors := make([]Factor, len(ex.factors))
	copy(factors, ex.factors)
	sort.SliceStable(factors, func(i, j int) bool {
		return math.Abs(factors[i].Contribution) > math.Abs(factors[j].Contribution)
	})

	citations := make([]string, 0, len(factors))
	cited := 0
	for _, f := range factors {
		if f.Cited() {
			cited++
			citations = append(citations, f.Citation)
		}
	}

	confidence := baseConfidence + confidencePerSource*cited
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return Prediction{
		Score:               score,
		Category:            category,
		Action:              action,
		OverturnProbability: s.overturnProbability(score, req.Modality),
		Confidence:          confidence,
		Specificity:         ClassifyDiagnosisSpecificity(req.DiagnosisCode),
		Factors:             factors,
		Citations:           citations,
		ProcessingTime:      time.Since(start),
	}
}

// classify maps a clamped score onto its category and queue action. The
// boundaries sit at 4 and 7: a well-supported request (low denial risk)
// auto-approves, the middle band goes to clinical review, and the rest are
// flagged likely to be approved only after scrutiny.
func classify(score float64) (RiskCategory, RecommendedAction) {
	switch {
	case score >= 7:
		return RiskLow, ActionAutoApprove
	case score >= 4:
		return RiskMedium, ActionClinicalReview
	default:
		return RiskHigh, ActionLikelyApprove
	}
}

// overturnProbability is the pre-denial estimate: the score rescaled onto a
// percentage, nudged by how often this modality's denials historically fail
// on appeal. Unrecognized modalities get no adjustment.
func (s *Scorer) overturnProbability(score float64, modality string) float64 {
	p := ((score - 1) / 8) * 100
	if rate, ok := s.rates[normalizeModality(modality)]; ok {
		p += (rate - 0.80) * 20
	}
	return round2(clamp(p, minOverturnProbability, maxOverturnProbability))
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

// round2 keeps the overturn probability at two decimals; the extra digit is
// meaningful once the modality adjustment contributes fractions of a point.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
