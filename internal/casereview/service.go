// Package casereview orchestrates the decision-support signals for one case:
// the denial-risk prediction, the provider's gold-card standing, and the
// deadline status, evaluated together and recorded on the case's audit
// trail. The evaluators themselves stay pure; this layer adds concurrency,
// attribution, and observability.
package casereview

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"caseline/internal/audittrail"
	"caseline/internal/casereview/metrics"
	"caseline/internal/compliance"
	"caseline/internal/goldcard"
	"caseline/internal/scoring"
	"caseline/internal/session"
	id "caseline/pkg/domain"
	"caseline/pkg/requestcontext"
)

// engineModel names the rule engine in audit AI-involvement records.
const engineModel = "caseline-rules-v1"

// Result is the combined outcome of one case review.
type Result struct {
	CaseID     id.CaseID                 `json:"case_id"`
	Prediction scoring.Prediction        `json:"prediction"`
	GoldCard   goldcard.Status           `json:"gold_card"`
	Deadline   compliance.DeadlineStatus `json:"deadline"`
	ReviewedAt time.Time                 `json:"reviewed_at"`
}

// Service runs the evaluators against in-flight sessions.
type Service struct {
	sessions *session.Service
	scorer   *scoring.Scorer
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// New constructs the case review service.
func New(sessions *session.Service, scorer *scoring.Scorer, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		sessions: sessions,
		scorer:   scorer,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("caseline/casereview"),
	}
}

// Score runs the denial-risk scorer for one case and records the prediction
// on its ledger as an AI action.
func (s *Service) Score(ctx context.Context, caseID id.CaseID) (scoring.Prediction, error) {
	sess, err := s.sessions.Get(caseID)
	if err != nil {
		return scoring.Prediction{}, err
	}

	prediction := s.scorer.Score(sess.Request)
	s.metrics.IncrementScoreOutcome(string(prediction.Category), string(prediction.Action))
	s.recordPrediction(ctx, caseID, "risk_scored", prediction)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "denial risk scored",
			"request_id", requestcontext.RequestID(ctx),
			"case_id", caseID,
			"score", prediction.Score,
			"category", prediction.Category,
			"action", prediction.Action,
		)
	}
	return prediction, nil
}

// Review evaluates all decision-support signals for a case in parallel with
// shared context cancellation, then records the combined outcome.
func (s *Service) Review(ctx context.Context, caseID id.CaseID) (*Result, error) {
	sess, err := s.sessions.Get(caseID)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "casereview.Review",
		trace.WithAttributes(attribute.String("case.id", caseID.String())))
	defer span.End()

	now := requestcontext.Now(ctx)
	start := time.Now()
	result := &Result{CaseID: caseID, ReviewedAt: now}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t0 := time.Now()
		result.Prediction = s.scorer.Score(sess.Request)
		s.metrics.ObserveEvaluatorLatency("scoring", time.Since(t0))
		return gctx.Err()
	})

	g.Go(func() error {
		t0 := time.Now()
		p := sess.Request.Provider
		result.GoldCard = goldcard.Evaluate(p.ApprovalRate*100, p.OrderCount, sess.Request.PayerID, p.RateHistory, now)
		s.metrics.ObserveEvaluatorLatency("goldcard", time.Since(t0))
		return gctx.Err()
	})

	g.Go(func() error {
		t0 := time.Now()
		result.Deadline = sess.Deadline.Poll(now)
		s.metrics.ObserveEvaluatorLatency("deadline", time.Since(t0))
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.metrics.ObserveReviewLatency(time.Since(start))
	s.metrics.IncrementScoreOutcome(string(result.Prediction.Category), string(result.Prediction.Action))
	s.recordPrediction(ctx, caseID, "case_reviewed", result.Prediction)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "case reviewed",
			"request_id", requestcontext.RequestID(ctx),
			"case_id", caseID,
			"score", result.Prediction.Score,
			"gold_card_eligible", result.GoldCard.Eligible,
			"deadline_status", result.Deadline.Status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return result, nil
}

func (s *Service) recordPrediction(ctx context.Context, caseID id.CaseID, action string, p scoring.Prediction) {
	_, err := s.sessions.RecordEntry(ctx, caseID, action, map[string]any{
		"score":                p.Score,
		"category":             string(p.Category),
		"overturn_probability": p.OverturnProbability,
		"factor_count":         len(p.Factors),
	}, audittrail.EntryOptions{
		Actor: audittrail.ActorAI,
		AI: &audittrail.AIInvolvement{
			Model:          engineModel,
			Confidence:     float64(p.Confidence),
			Recommendation: string(p.Action),
		},
	})
	if err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "audit entry for prediction failed",
			"case_id", caseID,
			"action", action,
			"error", err,
		)
	}
}
