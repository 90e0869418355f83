package audittrail

import (
	"sync"
	"time"

	id "caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
)

// Ledger is the per-case audit trail. One instance belongs to exactly one
// in-flight case; the session registry guarantees that. A mutex still guards
// the slices so a poll racing a workflow transition cannot corrupt them.
type Ledger struct {
	mu       sync.Mutex
	clock    func() time.Time
	entries  []Entry
	checks   []Check
	required []string
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithClock injects the timestamp source. Tests pin it; production uses the
// wall clock.
func WithClock(clock func() time.Time) LedgerOption {
	return func(l *Ledger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithRequiredChecks overrides the set of check IDs that gate completion.
func WithRequiredChecks(ids ...string) LedgerOption {
	return func(l *Ledger) {
		l.required = ids
	}
}

// NewLedger constructs an empty ledger with the three default pending checks.
func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{
		clock:    time.Now,
		checks:   defaultChecks(),
		required: []string{CheckDocReview, CheckCriteriaMatch, CheckHumanSignOff},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// EntryOptions carries the actor attribution for a new entry. At overrides
// the ledger clock when the caller already holds a request-scoped time.
type EntryOptions struct {
	Actor        Actor
	ActorDetails string
	AI           *AIInvolvement
	At           time.Time
}

// AddEntry appends a timestamped entry and returns a copy of it. Existing
// entries are never touched.
func (l *Ledger) AddEntry(action string, payload map[string]any, opts EntryOptions) (Entry, error) {
	if action == "" {
		return Entry{}, dErrors.New(dErrors.CodeInvariantViolation, "audit action is required")
	}
	actor := opts.Actor
	if actor == "" {
		actor = ActorSystem
	}
	switch actor {
	case ActorSystem, ActorAI, ActorHuman:
	default:
		return Entry{}, dErrors.New(dErrors.CodeInvariantViolation, "unknown audit actor")
	}

	ts := opts.At
	if ts.IsZero() {
		ts = l.clock()
	}

	entry := Entry{
		ID:           id.NewEntryID(),
		Timestamp:    ts,
		Action:       action,
		Actor:        actor,
		ActorDetails: opts.ActorDetails,
		Payload:      clonePayload(payload),
		AI:           cloneAI(opts.AI),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	return entry, nil
}

// SetCheckStatus mutates one compliance check in place.
func (l *Ledger) SetCheckStatus(checkID string, status CheckStatus) error {
	switch status {
	case CheckPass, CheckFail, CheckPending:
	default:
		return dErrors.New(dErrors.CodeValidation, "check status must be pass, fail, or na")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.checks {
		if l.checks[i].ID == checkID {
			l.checks[i].Status = status
			return nil
		}
	}
	return dErrors.New(dErrors.CodeNotFound, "unknown compliance check")
}

// IsComplete reports whether every required check currently passes. A ledger
// whose required checks are absent is never complete.
func (l *Ledger) IsComplete() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isCompleteLocked()
}

func (l *Ledger) isCompleteLocked() bool {
	if len(l.required) == 0 {
		return false
	}
	for _, want := range l.required {
		found := false
		for _, c := range l.checks {
			if c.ID == want {
				found = true
				if c.Status != CheckPass {
					return false
				}
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Entries returns a copy of the ledger entries in append order.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneEntries(l.entries)
}

// Checks returns a copy of the current compliance checks.
func (l *Ledger) Checks() []Check {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Check{}, l.checks...)
}

// Export builds a fresh snapshot report; nothing is cached between exports.
func (l *Ledger) Export() Report {
	l.mu.Lock()
	defer l.mu.Unlock()

	byActor := make(map[Actor]int, 3)
	for _, e := range l.entries {
		byActor[e.Actor]++
	}

	passed, failed := 0, 0
	for _, c := range l.checks {
		switch c.Status {
		case CheckPass:
			passed++
		case CheckFail:
			failed++
		}
	}

	return Report{
		ExportedAt:     l.clock(),
		Entries:        cloneEntries(l.entries),
		Checks:         append([]Check{}, l.checks...),
		EntriesByActor: byActor,
		ChecksPassed:   passed,
		ChecksFailed:   failed,
		Complete:       l.isCompleteLocked(),
	}
}

// Reset clears all entries and restores the default checks to pending. This
// is the only operation that removes ledger data.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.checks = defaultChecks()
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Payload = clonePayload(e.Payload)
		e.AI = cloneAI(e.AI)
		out[i] = e
	}
	return out
}

func clonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
}

func cloneAI(ai *AIInvolvement) *AIInvolvement {
	if ai == nil {
		return nil
	}
	c := *ai
	return &c
}
