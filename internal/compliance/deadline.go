// Package compliance tracks regulatory decision deadlines for
// prior-authorization cases and analyzes state-law obligations around
// AI-assisted determinations. Outputs are advisory signals, not legal
// determinations.
//
// All classification here is pure: callers supply the clock. Over HTTP the
// request-time middleware pins it; tests pin whatever instant they need.
package compliance

import (
	"sync"
	"time"

	"caseline/internal/domain"
)

// Decision windows mandated for utilization-review determinations:
// 72 hours for expedited requests, 7 calendar days for standard ones.
const (
	WindowExpedited = 72 * time.Hour
	WindowStandard  = 168 * time.Hour
)

// Level is the escalation state of a deadline. For a fixed deadline the
// level only ever escalates as time advances, never regresses.
type Level string

const (
	LevelSafe     Level = "safe"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
	LevelExceeded Level = "exceeded"
)

// DeadlineStatus is one poll's view of a case deadline.
type DeadlineStatus struct {
	Status        Level         `json:"status"`
	Deadline      time.Time     `json:"deadline"`
	TimeRemaining time.Duration `json:"time_remaining"` // floored at zero
	PercentUsed   float64       `json:"percent_used"`   // uncapped above 100
	Compliant     bool          `json:"compliant"`      // false only once exceeded
}

// Absolute remaining-time cutoffs that escalate regardless of percentage
// used. Expedited cases escalate on tighter cutoffs.
const (
	criticalRemainingExpedited = 12 * time.Hour
	criticalRemainingStandard  = 24 * time.Hour
	warningRemainingExpedited  = 24 * time.Hour
	warningRemainingStandard   = 72 * time.Hour

	criticalPercentUsed = 85.0
	warningPercentUsed  = 70.0
)

// Window returns the decision window for an urgency class.
func Window(urgency domain.Urgency) time.Duration {
	if urgency.Expedited() {
		return WindowExpedited
	}
	return WindowStandard
}

// Track classifies a case deadline at the given instant. Idempotent and
// side-effect free; polling it repeatedly is the intended use.
func Track(receivedAt time.Time, urgency domain.Urgency, now time.Time) DeadlineStatus {
	window := Window(urgency)
	deadline := receivedAt.Add(window)

	elapsed := now.Sub(receivedAt)
	percentUsed := float64(elapsed) / float64(window) * 100

	remaining := deadline.Sub(now)
	floored := remaining
	if floored < 0 {
		floored = 0
	}

	criticalCutoff := criticalRemainingStandard
	warningCutoff := warningRemainingStandard
	if urgency.Expedited() {
		criticalCutoff = criticalRemainingExpedited
		warningCutoff = warningRemainingExpedited
	}

	var level Level
	switch {
	case remaining <= 0:
		level = LevelExceeded
	case percentUsed >= criticalPercentUsed || remaining < criticalCutoff:
		level = LevelCritical
	case percentUsed >= warningPercentUsed || remaining < warningCutoff:
		level = LevelWarning
	default:
		level = LevelSafe
	}

	return DeadlineStatus{
		Status:        level,
		Deadline:      deadline,
		TimeRemaining: floored,
		PercentUsed:   percentUsed,
		Compliant:     level != LevelExceeded,
	}
}

// Tracker is the session-scoped deadline watcher for one case. It remembers
// the last poll so the workflow can show when the status was computed.
// One instance per in-flight case. Safe for concurrent use: the compliance
// poll endpoint and the review pipeline poll the same tracker.
type Tracker struct {
	receivedAt time.Time
	urgency    domain.Urgency

	mu           sync.RWMutex
	lastPolledAt time.Time
	lastStatus   DeadlineStatus
}

// NewTracker creates a tracker for a case received at the given time.
func NewTracker(receivedAt time.Time, urgency domain.Urgency) *Tracker {
	return &Tracker{receivedAt: receivedAt, urgency: urgency}
}

// Poll re-evaluates the deadline at the given instant.
func (t *Tracker) Poll(now time.Time) DeadlineStatus {
	status := Track(t.receivedAt, t.urgency, now)

	t.mu.Lock()
	t.lastPolledAt = now
	t.lastStatus = status
	t.mu.Unlock()

	return status
}

// Deadline returns the case's absolute deadline.
func (t *Tracker) Deadline() time.Time {
	return t.receivedAt.Add(Window(t.urgency))
}

// LastPolled returns the instant and result of the most recent poll.
func (t *Tracker) LastPolled() (time.Time, DeadlineStatus) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastPolledAt, t.lastStatus
}
