package audittrail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozen = time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

func frozenClock() time.Time { return frozen }

func TestAddEntryAppendsWithoutTouchingPriors(t *testing.T) {
	ledger := NewLedger(WithClock(frozenClock))

	first, err := ledger.AddEntry("case_created", map[string]any{"modality": "mri_brain"}, EntryOptions{})
	require.NoError(t, err)
	assert.Equal(t, ActorSystem, first.Actor, "actor defaults to system")
	assert.Equal(t, frozen, first.Timestamp)
	assert.False(t, first.ID.IsNil())

	second, err := ledger.AddEntry("risk_scored", nil, EntryOptions{Actor: ActorAI, AI: &AIInvolvement{Model: "rules-v1", Confidence: 80}})
	require.NoError(t, err)

	entries := ledger.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, second.ID, entries[1].ID)
}

func TestAddEntryValidation(t *testing.T) {
	ledger := NewLedger()

	_, err := ledger.AddEntry("", nil, EntryOptions{})
	assert.Error(t, err, "empty action is rejected")

	_, err = ledger.AddEntry("x", nil, EntryOptions{Actor: Actor("robot")})
	assert.Error(t, err, "unknown actor is rejected")

	assert.Empty(t, ledger.Entries(), "rejected entries leave no trace")
}

func TestAddEntryClonesPayload(t *testing.T) {
	ledger := NewLedger()
	payload := map[string]any{"k": "v"}

	entry, err := ledger.AddEntry("case_created", payload, EntryOptions{})
	require.NoError(t, err)

	payload["k"] = "mutated"
	assert.Equal(t, "v", entry.Payload["k"])
	assert.Equal(t, "v", ledger.Entries()[0].Payload["k"])

	// Mutating the returned copy must not reach the ledger either.
	ledger.Entries()[0].Payload["k"] = "again"
	assert.Equal(t, "v", ledger.Entries()[0].Payload["k"])
}

func TestAddEntryExplicitTimestampWins(t *testing.T) {
	ledger := NewLedger(WithClock(frozenClock))
	at := frozen.Add(-2 * time.Hour)

	entry, err := ledger.AddEntry("case_created", nil, EntryOptions{At: at})
	require.NoError(t, err)
	assert.Equal(t, at, entry.Timestamp)
}

func TestChecksLifecycle(t *testing.T) {
	ledger := NewLedger()

	checks := ledger.Checks()
	require.Len(t, checks, 3)
	for _, c := range checks {
		assert.Equal(t, CheckPending, c.Status)
	}
	assert.False(t, ledger.IsComplete())

	require.NoError(t, ledger.SetCheckStatus(CheckDocReview, CheckPass))
	require.NoError(t, ledger.SetCheckStatus(CheckCriteriaMatch, CheckPass))
	assert.False(t, ledger.IsComplete(), "completion needs every required check")

	require.NoError(t, ledger.SetCheckStatus(CheckHumanSignOff, CheckPass))
	assert.True(t, ledger.IsComplete())

	require.NoError(t, ledger.SetCheckStatus(CheckHumanSignOff, CheckFail))
	assert.False(t, ledger.IsComplete(), "a failed check reopens the case")

	assert.Error(t, ledger.SetCheckStatus("no-such-check", CheckPass))
	assert.Error(t, ledger.SetCheckStatus(CheckDocReview, CheckStatus("maybe")))
}

func TestIsCompleteRequiresConfiguredChecks(t *testing.T) {
	ledger := NewLedger(WithRequiredChecks())
	assert.False(t, ledger.IsComplete(), "no required checks can never be complete")

	custom := NewLedger(WithRequiredChecks(CheckDocReview))
	require.NoError(t, custom.SetCheckStatus(CheckDocReview, CheckPass))
	assert.True(t, custom.IsComplete())
}

func TestExportSnapshotsFreshly(t *testing.T) {
	ledger := NewLedger(WithClock(frozenClock))

	_, err := ledger.AddEntry("case_created", nil, EntryOptions{})
	require.NoError(t, err)
	_, err = ledger.AddEntry("risk_scored", nil, EntryOptions{Actor: ActorAI})
	require.NoError(t, err)
	_, err = ledger.AddEntry("signed_off", nil, EntryOptions{Actor: ActorHuman, ActorDetails: "dr-lopez"})
	require.NoError(t, err)
	require.NoError(t, ledger.SetCheckStatus(CheckDocReview, CheckPass))
	require.NoError(t, ledger.SetCheckStatus(CheckCriteriaMatch, CheckFail))

	report := ledger.Export()
	assert.Equal(t, frozen, report.ExportedAt)
	assert.Len(t, report.Entries, 3)
	assert.Equal(t, 1, report.EntriesByActor[ActorSystem])
	assert.Equal(t, 1, report.EntriesByActor[ActorAI])
	assert.Equal(t, 1, report.EntriesByActor[ActorHuman])
	assert.Equal(t, 1, report.ChecksPassed)
	assert.Equal(t, 1, report.ChecksFailed)
	assert.False(t, report.Complete)

	// A later export reflects later state; the first report is untouched.
	_, err = ledger.AddEntry("appealed", nil, EntryOptions{})
	require.NoError(t, err)
	assert.Len(t, ledger.Export().Entries, 4)
	assert.Len(t, report.Entries, 3)
}

func TestResetRestoresCleanSlate(t *testing.T) {
	ledger := NewLedger()

	_, err := ledger.AddEntry("case_created", nil, EntryOptions{})
	require.NoError(t, err)
	require.NoError(t, ledger.SetCheckStatus(CheckDocReview, CheckPass))
	require.NoError(t, ledger.SetCheckStatus(CheckHumanSignOff, CheckFail))

	ledger.Reset()

	assert.Empty(t, ledger.Entries())
	checks := ledger.Checks()
	require.Len(t, checks, 3)
	for _, c := range checks {
		assert.Equal(t, CheckPending, c.Status)
	}
	assert.False(t, ledger.IsComplete())
}
