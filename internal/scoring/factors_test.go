package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"caseline/internal/domain"
)

func TestClassifyDiagnosisSpecificity(t *testing.T) {
	tests := []struct {
		code string
		want DiagnosisSpecificity
	}{
		{"M54", SpecificityNonspecific},
		{"R10", SpecificityNonspecific},
		{"", SpecificityNonspecific},
		{"M54.1", SpecificityModerate},
		{"G44.1", SpecificityModerate},
		{"M54.16", SpecificitySpecific},
		{"S06.0X1A", SpecificitySpecific},
		{" M54.16 ", SpecificitySpecific},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDiagnosisSpecificity(tt.code))
		})
	}
}

func TestExtractRedFlagsZeroCountStillExplains(t *testing.T) {
	var ex extraction
	extractRedFlags(&ex, &domain.PARequest{})

	assert.Zero(t, ex.delta)
	assert.Len(t, ex.factors, 1)
	assert.Equal(t, "no_red_flags", ex.factors[0].ID)
	assert.Equal(t, -0.1, ex.factors[0].Contribution)
	assert.True(t, ex.factors[0].Cited())
}

func TestExtractConservativeTreatmentFirstLinePenalty(t *testing.T) {
	// No conservative therapy and no red flags reads as a first-line request.
	var ex extraction
	extractConservativeTreatment(&ex, &domain.PARequest{})
	assert.Equal(t, -0.5, ex.delta)
	assert.Equal(t, "first_line_request", ex.factors[0].ID)

	// Red flags excuse the missing conservative therapy.
	ex = extraction{}
	extractConservativeTreatment(&ex, &domain.PARequest{RedFlags: []string{"trauma"}})
	assert.Zero(t, ex.delta)
	assert.Empty(t, ex.factors)
}

func TestExtractProviderHistoryBands(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		wantID    string
		wantDelta float64
	}{
		{"strong", 0.91, "provider_history_strong", 0.3},
		{"weak", 0.60, "provider_history_weak", 0},
		{"middle band emits nothing", 0.75, "", 0},
		{"boundary 0.85 is not strong", 0.85, "", 0},
		{"boundary 0.65 is not weak", 0.65, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ex extraction
			extractProviderHistory(&ex, &domain.PARequest{
				Provider: domain.OrderingProvider{ApprovalRate: tt.rate},
			})
			assert.Equal(t, tt.wantDelta, ex.delta)
			if tt.wantID == "" {
				assert.Empty(t, ex.factors)
				return
			}
			assert.Equal(t, tt.wantID, ex.factors[0].ID)
		})
	}
}

func TestExtractPriorImagingCountsRelevantOnly(t *testing.T) {
	var ex extraction
	extractPriorImaging(&ex, &domain.PARequest{
		PriorImaging: []domain.PriorImaging{
			{Study: "XR lumbar", Relevant: false},
			{Study: "CT chest", Relevant: false},
		},
	})
	assert.Empty(t, ex.factors, "irrelevant studies alone earn nothing")

	ex = extraction{}
	extractPriorImaging(&ex, &domain.PARequest{
		PriorImaging: []domain.PriorImaging{
			{Study: "XR lumbar", Relevant: true},
			{Study: "CT chest", Relevant: false},
		},
	})
	assert.Equal(t, 0.7, ex.delta)
	assert.Equal(t, "1 relevant of 2 on file", ex.factors[0].Value)
}

func TestNormalizeModality(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MRI Lumbar Spine", "mri_lumbar_spine"},
		{"CT Abdomen/Pelvis", "ct_abdomen_pelvis"},
		{"PET-CT", "pet_ct"},
		{"  echocardiogram  ", "echocardiogram"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeModality(tt.in), tt.in)
	}
}
