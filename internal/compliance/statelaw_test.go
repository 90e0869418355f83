package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckStateCompliantDecision(t *testing.T) {
	result := CheckState("CA", Decision{
		UsedAI:                 true,
		HadHumanReview:         true,
		PatientNotified:        true,
		ExplainabilityProvided: true,
	})

	assert.True(t, result.Compliant)
	assert.Equal(t, StatusCompliant, result.Status)
	assert.Equal(t, "California", result.StateName)
	assert.Empty(t, result.Gaps)
	assert.NotNil(t, result.Gaps, "gap list is always present, even when empty")
}

func TestCheckStateDetectsGaps(t *testing.T) {
	// Fully automated AI denial with no review, notice, or explanation
	// violates every California obligation.
	result := CheckState("ca", Decision{UsedAI: true, WasAutomated: true})

	assert.False(t, result.Compliant)
	assert.Equal(t, StatusNonCompliant, result.Status)
	assert.Equal(t, "CA", result.StateCode)
	assert.Len(t, result.Gaps, 4)
}

func TestCheckStateOnlyFlagsObligationsTheStateHas(t *testing.T) {
	// Washington only mandates human review; the same decision produces a
	// single gap there.
	result := CheckState("WA", Decision{UsedAI: true, WasAutomated: true})

	assert.False(t, result.Compliant)
	assert.Len(t, result.Gaps, 1)
	assert.Contains(t, result.Gaps[0], "human review")
}

func TestCheckStateUnknownState(t *testing.T) {
	result := CheckState("ZZ", Decision{UsedAI: true, WasAutomated: true})

	assert.True(t, result.Compliant)
	assert.Equal(t, StatusNotApplicable, result.Status)
	assert.Empty(t, result.StateName)
	assert.Empty(t, result.Gaps)
	assert.NotNil(t, result.Gaps)
}

func TestCheckStateNoAINothingApplies(t *testing.T) {
	for _, code := range KnownStates() {
		result := CheckState(code, Decision{HadHumanReview: true, PatientNotified: true})
		assert.True(t, result.Compliant, "state %s flagged a decision that never used AI", code)
	}
}

func TestCheckStateHumanReviewCuresAutomationGaps(t *testing.T) {
	result := CheckState("TX", Decision{
		UsedAI:          true,
		WasAutomated:    true,
		HadHumanReview:  true,
		PatientNotified: true,
	})

	// Texas has no explainability requirement, so review plus notice clears it.
	assert.True(t, result.Compliant)
}

func TestKnownStatesCoverage(t *testing.T) {
	states := KnownStates()
	assert.Len(t, states, 7)
	for _, code := range []string{"CA", "TX", "NY", "IL", "CO", "WA", "CT"} {
		assert.Contains(t, states, code)
	}
}
