package goldcard

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestEvaluateEligibleProvider(t *testing.T) {
	status := Evaluate(93, 110, "UnitedHealthcare", nil, evalNow)

	assert.True(t, status.Eligible)
	assert.True(t, status.MetRate)
	assert.True(t, status.MetOrders)
	assert.Equal(t, 0.0, status.GapToRate)
	assert.Equal(t, 0, status.GapToOrders)
	assert.Equal(t, PayerUnitedHealthcare, status.Payer.PayerKey)
	assert.False(t, status.Payer.Fallback)
	assert.Nil(t, status.ProjectedEligibleAt, "no projection for a provider already at the bar")
}

func TestEvaluateRateMissedVolumeMet(t *testing.T) {
	status := Evaluate(88, 60, "Aetna", nil, evalNow)

	assert.False(t, status.Eligible)
	assert.False(t, status.MetRate)
	assert.True(t, status.MetOrders)
	assert.Equal(t, 2.0, status.GapToRate)
	assert.Equal(t, 0, status.GapToOrders)
	assert.Equal(t, PayerAetna, status.Payer.PayerKey)
}

func TestEvaluateBothGapsReported(t *testing.T) {
	status := Evaluate(85, 30, "Cigna", nil, evalNow)

	assert.False(t, status.Eligible)
	assert.Equal(t, 6.0, status.GapToRate)
	assert.Equal(t, 50, status.GapToOrders)
}

func TestEvaluateEligibleIsConjunction(t *testing.T) {
	// Eligibility must never hold on one condition alone, whatever the
	// payer and inputs.
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		payer := []string{"UHC", "Aetna", "Cigna", "Humana", "Anthem", "Highmark", "Acme Health"}[rng.Intn(7)]
		status := Evaluate(rng.Float64()*100, rng.Intn(200), payer, nil, evalNow)

		assert.Equal(t, status.MetRate && status.MetOrders, status.Eligible)
		assert.GreaterOrEqual(t, status.GapToRate, 0.0)
		assert.GreaterOrEqual(t, status.GapToOrders, 0)
	}
}

func TestEvaluateClampsInputs(t *testing.T) {
	status := Evaluate(140, -5, "Aetna", nil, evalNow)
	assert.Equal(t, 100.0, status.ApprovalRate)
	assert.Equal(t, 0, status.OrderCount)
	assert.True(t, status.MetRate)
	assert.False(t, status.MetOrders)
}

func TestResolvePayerAliases(t *testing.T) {
	tests := []struct {
		id       string
		key      string
		fallback bool
	}{
		{"UnitedHealthcare", PayerUnitedHealthcare, false},
		{"UHC Community Plan TX", PayerUnitedHealthcare, false},
		{"Optum Behavioral", PayerUnitedHealthcare, false},
		{"AETNA Better Health", PayerAetna, false},
		{"Evernorth", PayerCigna, false},
		{"Anthem Blue Cross", PayerElevance, false},
		{"Highmark BCBS", PayerBCBS, false},
		{"Blue Shield of California", PayerBCBS, false},
		{"Humana Gold Plus", PayerHumana, false},
		{"Acme Regional Health Plan", PayerDefault, true},
		{"", PayerDefault, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			res := ResolvePayer(tt.id)
			assert.Equal(t, tt.key, res.PayerKey)
			assert.Equal(t, tt.fallback, res.Fallback)
		})
	}
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name    string
		history []float64
		want    Trend
	}{
		{"empty", nil, TrendStable},
		{"single point", []float64{90}, TrendStable},
		{"improving", []float64{85, 86, 87, 89, 90, 91}, TrendImproving},
		{"declining", []float64{92, 91, 90, 88, 87, 86}, TrendDeclining},
		{"flat", []float64{90, 90, 90, 90, 90, 90}, TrendStable},
		{"within one point reads stable", []float64{90, 90, 90, 90.5, 90.5, 90.5}, TrendStable},
		{"short history splits into uneven windows", []float64{84, 90, 91, 92}, TrendImproving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrendOf(tt.history))
		})
	}
}

func TestProjectedEligibility(t *testing.T) {
	// Improving provider 2 points short, gaining 1 point/month.
	history := []float64{85, 86, 87, 88, 89, 90}
	status := Evaluate(90, 120, "UnitedHealthcare", history, evalNow)

	require.NotNil(t, status.ProjectedEligibleAt)
	assert.Equal(t, evalNow.AddDate(0, 2, 0), *status.ProjectedEligibleAt)

	// Declining providers never get a projection.
	status = Evaluate(90, 120, "UnitedHealthcare", []float64{95, 94, 93, 92, 91, 90}, evalNow)
	assert.Nil(t, status.ProjectedEligibleAt)
}

func TestProjectedEligibilityGainFloor(t *testing.T) {
	// Recent gain of 0.1/month is floored at 0.5, so a 2 point gap reads as
	// four months out, not twenty.
	history := []float64{85, 85, 85, 89.8, 89.9, 90}
	status := Evaluate(90, 120, "UnitedHealthcare", history, evalNow)

	require.NotNil(t, status.ProjectedEligibleAt)
	assert.Equal(t, evalNow.AddDate(0, 4, 0), *status.ProjectedEligibleAt)
}
