package scoring

import (
	"fmt"
	"strings"

	"caseline/internal/domain"
)

// Literature citations attached to clinically grounded factors.
const (
	citationRedFlags     = "ACR Appropriateness Criteria: red flag indications"
	citationPriorImaging = "ACR Appropriateness Criteria: prior imaging relevance"
	citationConservative = "AHRQ: conservative therapy before advanced imaging"
	citationSpecificity  = "CMS ICD-10-CM coding specificity guidance"
)

// extraction accumulates rule outputs while a request is evaluated. Each rule
// applies independently: a score delta, a normalized contribution, or both.
type extraction struct {
	factors []Factor
	delta   float64
}

func (e *extraction) add(delta float64, f Factor) {
	e.delta += delta
	e.factors = append(e.factors, f)
}

// extractFactors derives the weighted factor set from a request. Rules never
// fail on malformed optional fields; absent lists read as empty.
func extractFactors(req *domain.PARequest, rates map[string]float64) extraction {
	var ex extraction

	extractRedFlags(&ex, req)
	extractPriorImaging(&ex, req)
	extractConservativeTreatment(&ex, req)
	extractDiagnosisSpecificity(&ex, req)
	extractProviderHistory(&ex, req)
	extractUrgency(&ex, req)
	extractModalityHistory(&ex, req, rates)

	return ex
}

func extractRedFlags(ex *extraction, req *domain.PARequest) {
	count := len(req.RedFlags)
	if count == 0 {
		ex.add(0, Factor{
			ID:           "no_red_flags",
			Name:         "No red flag indications",
			Contribution: -0.1,
			Value:        "0 documented",
			Explanation:  "No red flag symptoms documented; urgency of the indication is not established.",
			Citation:     citationRedFlags,
		})
		return
	}

	capped := count
	if capped > 3 {
		capped = 3
	}
	delta := 0.8 + float64(capped)*0.3
	ex.add(delta, Factor{
		ID:           "red_flags",
		Name:         "Red flag indications present",
		Contribution: delta / 4,
		Value:        fmt.Sprintf("%d documented", count),
		Explanation:  fmt.Sprintf("Red flag findings (%s) support medical necessity.", strings.Join(req.RedFlags, "; ")),
		Citation:     citationRedFlags,
	})
}

func extractPriorImaging(ex *extraction, req *domain.PARequest) {
	relevant := req.RelevantPriorImaging()
	if relevant == 0 {
		return
	}
	ex.add(0.7, Factor{
		ID:           "prior_imaging",
		Name:         "Relevant prior imaging on file",
		Contribution: 0.175,
		Value:        fmt.Sprintf("%d relevant of %d on file", relevant, len(req.PriorImaging)),
		Explanation:  "Prior studies relevant to the indication show an appropriate diagnostic progression.",
		Citation:     citationPriorImaging,
	})
}

func extractConservativeTreatment(ex *extraction, req *domain.PARequest) {
	if len(req.ConservativeTreatments) > 0 {
		ex.add(0.6, Factor{
			ID:           "conservative_treatment",
			Name:         "Conservative treatment attempted",
			Contribution: 0.15,
			Value:        fmt.Sprintf("%d therapies documented", len(req.ConservativeTreatments)),
			Explanation:  "Documented conservative therapy before advanced imaging satisfies step-therapy expectations.",
			Citation:     citationConservative,
		})
		return
	}
	if len(req.RedFlags) == 0 {
		ex.add(-0.5, Factor{
			ID:           "first_line_request",
			Name:         "No conservative treatment or red flags",
			Contribution: -0.125,
			Value:        "none documented",
			Explanation:  "Advanced imaging requested first-line without red flags; payers commonly require conservative therapy first.",
			Citation:     citationConservative,
		})
	}
}

func extractDiagnosisSpecificity(ex *extraction, req *domain.PARequest) {
	switch ClassifyDiagnosisSpecificity(req.DiagnosisCode) {
	case SpecificitySpecific:
		ex.add(0.4, Factor{
			ID:           "diagnosis_specific",
			Name:         "Highly specific diagnosis code",
			Contribution: 0.1,
			Value:        req.DiagnosisCode,
			Explanation:  "Diagnosis coded to full specificity supports the clinical indication.",
			Citation:     citationSpecificity,
		})
	case SpecificityNonspecific:
		ex.add(-0.3, Factor{
			ID:           "diagnosis_nonspecific",
			Name:         "Nonspecific diagnosis code",
			Contribution: -0.075,
			Value:        req.DiagnosisCode,
			Explanation:  "Category-level diagnosis code without laterality or episode detail weakens the indication.",
			Citation:     citationSpecificity,
		})
	case SpecificityModerate:
		// Moderate specificity moves nothing and emits no factor.
	}
}

func extractProviderHistory(ex *extraction, req *domain.PARequest) {
	rate := req.Provider.ApprovalRate
	switch {
	case rate > 0.85:
		ex.add(0.3, Factor{
			ID:           "provider_history_strong",
			Name:         "Strong provider approval history",
			Contribution: 0.075,
			Value:        fmt.Sprintf("%.0f%% approval rate", rate*100),
			Explanation:  "Ordering provider's historical approval rate indicates consistently appropriate ordering.",
		})
	case rate < 0.65:
		ex.add(0, Factor{
			ID:           "provider_history_weak",
			Name:         "Weak provider approval history",
			Contribution: -0.05,
			Value:        fmt.Sprintf("%.0f%% approval rate", rate*100),
			Explanation:  "Ordering provider's historical approval rate is below the plan average.",
		})
	}
}

func extractUrgency(ex *extraction, req *domain.PARequest) {
	if req.Urgency != domain.UrgencyEmergent {
		return
	}
	ex.add(0.5, Factor{
		ID:           "emergent_presentation",
		Name:         "Emergent presentation",
		Contribution: 0.125,
		Value:        string(req.Urgency),
		Explanation:  "Emergent presentations carry a presumption of medical necessity.",
	})
}

func extractModalityHistory(ex *extraction, req *domain.PARequest, rates map[string]float64) {
	rate, ok := rates[normalizeModality(req.Modality)]
	if !ok || rate <= 0.80 {
		return
	}
	ex.add(0, Factor{
		ID:           "modality_overturn_history",
		Name:         "Modality denials frequently overturned",
		Contribution: 0.05,
		Value:        fmt.Sprintf("%.0f%% average overturn rate", rate*100),
		Explanation:  "Denials for this modality are overturned on appeal more often than not upheld.",
	})
}

// ClassifyDiagnosisSpecificity buckets a diagnosis code by its coding
// granularity: no decimal point is nonspecific, a one-character decimal
// suffix is moderate, two or more is specific.
func ClassifyDiagnosisSpecificity(code string) DiagnosisSpecificity {
	code = strings.TrimSpace(code)
	dot := strings.IndexByte(code, '.')
	if dot < 0 {
		return SpecificityNonspecific
	}
	if len(code)-dot-1 >= 2 {
		return SpecificitySpecific
	}
	return SpecificityModerate
}
