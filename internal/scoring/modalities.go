package scoring

import "strings"

// defaultModalityOverturnRates holds the historical average appeal-overturn
// rate per imaging modality, derived from utilization-review outcome data.
// A modality above 0.80 signals that denials of this study type tend not to
// survive appeal.
var defaultModalityOverturnRates = map[string]float64{
	"mri_lumbar_spine":    0.82,
	"mri_cervical_spine":  0.81,
	"mri_brain":           0.78,
	"ct_head":             0.72,
	"ct_chest":            0.74,
	"ct_abdomen_pelvis":   0.79,
	"pet_ct":              0.85,
	"nuclear_stress_test": 0.83,
	"echocardiogram":      0.77,
}

// normalizeModality maps free-text modality labels onto table keys.
func normalizeModality(modality string) string {
	s := strings.ToLower(strings.TrimSpace(modality))
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "/", " ")
	return strings.Join(strings.Fields(s), "_")
}
