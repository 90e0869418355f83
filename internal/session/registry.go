package session

import (
	"fmt"
	"sync"
	"time"

	"caseline/internal/domain"
	id "caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
	"caseline/pkg/platform/sentinel"
)

// Registry holds all in-flight case sessions. In-memory by design: the
// engine persists nothing beyond caller-supplied state, and the audit
// archive keeps the durable record.
//
// Existence facts surface as sentinel errors; the service layer translates
// them into domain errors at its boundary.
type Registry struct {
	mu       sync.RWMutex
	sessions map[id.CaseID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[id.CaseID]*Session)}
}

// Create validates the intake record and opens a session for it. A second
// intake of the same case ID is a conflict, not an overwrite.
func (r *Registry) Create(req *domain.PARequest, now time.Time) (*Session, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[req.CaseID]; exists {
		return nil, fmt.Errorf("case %s: %w", req.CaseID, sentinel.ErrConflict)
	}
	s := newSession(req, now)
	r.sessions[req.CaseID] = s
	return s, nil
}

// Get returns the session for a case.
func (r *Registry) Get(caseID id.CaseID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[caseID]
	if !ok {
		return nil, fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}
	return s, nil
}

// Delete discards a session. The archived events remain.
func (r *Registry) Delete(caseID id.CaseID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, caseID)
}

// Len reports the number of in-flight sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
