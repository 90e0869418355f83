package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"caseline/internal/audittrail"
	"caseline/internal/compliance"
	"caseline/internal/domain"
	id "caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
	platformaudit "caseline/pkg/platform/audit"
	"caseline/pkg/platform/sentinel"
	"caseline/pkg/requestcontext"
)

// Archiver mirrors ledger activity into the durable audit archive.
// Implementations must not block; the worker's Emit drops on overflow.
type Archiver interface {
	Emit(event platformaudit.Event)
}

// Service wraps the registry with ledger bookkeeping and archive mirroring.
// Handlers talk to this, never to a Session's internals directly.
type Service struct {
	registry *Registry
	archiver Archiver
	logger   *slog.Logger
}

// NewService constructs the session service. archiver may be nil, in which
// case the in-flight ledger is the only record.
func NewService(registry *Registry, archiver Archiver, logger *slog.Logger) *Service {
	return &Service{registry: registry, archiver: archiver, logger: logger}
}

// CreateCase opens a session and records the intake on its ledger.
func (s *Service) CreateCase(ctx context.Context, req *domain.PARequest) (*Session, error) {
	now := requestcontext.Now(ctx)
	sess, err := s.registry.Create(req, now)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "case already exists")
		}
		return nil, err
	}

	entry, err := sess.Ledger.AddEntry("case_created", map[string]any{
		"modality":       req.Modality,
		"diagnosis_code": req.DiagnosisCode,
		"urgency":        string(req.Urgency),
		"payer_id":       req.PayerID,
	}, audittrail.EntryOptions{Actor: audittrail.ActorSystem, At: now})
	if err != nil {
		return nil, err
	}
	s.mirror(ctx, sess.ID, entry)

	return sess, nil
}

// Get returns an in-flight session.
func (s *Service) Get(caseID id.CaseID) (*Session, error) {
	return s.session(caseID)
}

// session translates the registry's sentinel into a domain error.
func (s *Service) session(caseID id.CaseID) (*Session, error) {
	sess, err := s.registry.Get(caseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "unknown case")
		}
		return nil, err
	}
	return sess, nil
}

// RecordEntry appends a workflow entry to a case's ledger. The display layer
// calls this at every step transition; actor details default to what the
// request metadata middleware captured.
func (s *Service) RecordEntry(ctx context.Context, caseID id.CaseID, action string, payload map[string]any, opts audittrail.EntryOptions) (audittrail.Entry, error) {
	sess, err := s.session(caseID)
	if err != nil {
		return audittrail.Entry{}, err
	}

	if opts.At.IsZero() {
		opts.At = requestcontext.Now(ctx)
	}
	if opts.ActorDetails == "" && opts.Actor == audittrail.ActorHuman {
		opts.ActorDetails = actorDetailsFromContext(ctx)
	}

	entry, err := sess.Ledger.AddEntry(action, payload, opts)
	if err != nil {
		return audittrail.Entry{}, err
	}
	s.mirror(ctx, caseID, entry)
	return entry, nil
}

// Export builds the ledger snapshot report for a case.
func (s *Service) Export(ctx context.Context, caseID id.CaseID) (audittrail.Report, error) {
	sess, err := s.session(caseID)
	if err != nil {
		return audittrail.Report{}, err
	}

	report := sess.Ledger.Export()
	s.archive(ctx, caseID, platformaudit.ActionTrailExported, audittrail.ActorSystem, "",
		fmt.Sprintf("%d entries, %d checks passed", len(report.Entries), report.ChecksPassed))
	return report, nil
}

// Reset wipes a case's ledger back to the pending state. The reset itself
// is archived: the in-flight trail is cleared, the durable one never is.
func (s *Service) Reset(ctx context.Context, caseID id.CaseID) error {
	sess, err := s.session(caseID)
	if err != nil {
		return err
	}
	sess.Ledger.Reset()
	if s.logger != nil {
		s.logger.InfoContext(ctx, "audit trail reset",
			"case_id", caseID,
			"actor", requestcontext.ActorID(ctx),
		)
	}
	s.archive(ctx, caseID, platformaudit.ActionTrailReset, actorFromContext(ctx), actorDetailsFromContext(ctx), "")
	return nil
}

// SetCheck updates one compliance check on a case.
func (s *Service) SetCheck(ctx context.Context, caseID id.CaseID, checkID string, status audittrail.CheckStatus) error {
	sess, err := s.session(caseID)
	if err != nil {
		return err
	}
	if err := sess.Ledger.SetCheckStatus(checkID, status); err != nil {
		return err
	}
	s.archive(ctx, caseID, platformaudit.ActionCheckUpdated, actorFromContext(ctx), actorDetailsFromContext(ctx),
		fmt.Sprintf("%s=%s", checkID, status))
	return nil
}

// IsComplete reports whether a case's required checks all pass.
func (s *Service) IsComplete(caseID id.CaseID) (bool, error) {
	sess, err := s.session(caseID)
	if err != nil {
		return false, err
	}
	return sess.Ledger.IsComplete(), nil
}

// PollCompliance re-evaluates a case's deadline at the request-scoped time.
func (s *Service) PollCompliance(ctx context.Context, caseID id.CaseID) (compliance.DeadlineStatus, error) {
	sess, err := s.session(caseID)
	if err != nil {
		return compliance.DeadlineStatus{}, err
	}

	status := sess.Deadline.Poll(requestcontext.Now(ctx))
	s.archive(ctx, caseID, platformaudit.ActionCompliancePolled, audittrail.ActorSystem, "",
		string(status.Status))
	return status, nil
}

// mirror converts a ledger entry into an archive event.
func (s *Service) mirror(ctx context.Context, caseID id.CaseID, entry audittrail.Entry) {
	if s.archiver == nil {
		return
	}
	event := platformaudit.Event{
		ID:           entry.ID.String(),
		Category:     platformaudit.CategoryOf(entry.Action),
		Timestamp:    entry.Timestamp,
		CaseID:       caseID.String(),
		Action:       entry.Action,
		Actor:        string(entry.Actor),
		ActorDetails: entry.ActorDetails,
		RequestID:    requestcontext.RequestID(ctx),
	}
	if entry.AI != nil {
		event.Model = entry.AI.Model
		event.Detail = entry.AI.Recommendation
	}
	s.archiver.Emit(event)
}

// archive emits a service-level event that has no ledger entry of its own.
func (s *Service) archive(ctx context.Context, caseID id.CaseID, action string, actor audittrail.Actor, details, detail string) {
	if s.archiver == nil {
		return
	}
	s.archiver.Emit(platformaudit.Event{
		ID:           uuid.NewString(),
		Category:     platformaudit.CategoryOf(action),
		Timestamp:    requestcontext.Now(ctx),
		CaseID:       caseID.String(),
		Action:       action,
		Actor:        string(actor),
		ActorDetails: details,
		RequestID:    requestcontext.RequestID(ctx),
		Detail:       detail,
	})
}

func actorFromContext(ctx context.Context) audittrail.Actor {
	if requestcontext.ActorID(ctx) != "" {
		return audittrail.ActorHuman
	}
	return audittrail.ActorSystem
}

func actorDetailsFromContext(ctx context.Context) string {
	actorID := requestcontext.ActorID(ctx)
	if actorID == "" {
		return ""
	}
	details := actorID
	if role := requestcontext.ActorRole(ctx); role != "" {
		details += " (" + role + ")"
	}
	if ua := requestcontext.UserAgent(ctx); ua != "" {
		details += ", " + ua
	}
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		details += ", " + ip
	}
	return details
}
