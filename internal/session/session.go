// Package session owns the per-case state: one Session per in-flight
// prior-authorization request, holding its immutable intake record, its
// deadline tracker, and its audit ledger. There is no ambient global state;
// everything flows through an explicit Registry passed by reference.
package session

import (
	"time"

	"caseline/internal/audittrail"
	"caseline/internal/compliance"
	"caseline/internal/domain"
	id "caseline/pkg/domain"
)

// Session is the unit of isolation: its ledger and tracker are never shared
// across cases. Within one case the ledger and the tracker each carry their
// own lock, so concurrent polls and appends against the same session are
// safe. The intake record stays immutable after creation.
type Session struct {
	ID        id.CaseID
	Request   *domain.PARequest
	CreatedAt time.Time
	Ledger    *audittrail.Ledger
	Deadline  *compliance.Tracker
}

func newSession(req *domain.PARequest, now time.Time) *Session {
	receivedAt := req.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = now
	}
	return &Session{
		ID:        req.CaseID,
		Request:   req,
		CreatedAt: now,
		Ledger:    audittrail.NewLedger(),
		Deadline:  compliance.NewTracker(receivedAt, req.Urgency),
	}
}
