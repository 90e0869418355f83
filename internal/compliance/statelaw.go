package compliance

import "strings"

// StateRule captures one state's obligations for AI use in utilization
// review: the statute or regulation, and the concrete requirement texts the
// gap analysis matches against.
type StateRule struct {
	Name         string   `json:"name"`
	Citation     string   `json:"citation"`
	Requirements []string `json:"requirements"`
}

// Decision describes how a determination was made, for state-law checking.
type Decision struct {
	UsedAI                 bool `json:"used_ai"`
	HadHumanReview         bool `json:"had_human_review"`
	WasAutomated           bool `json:"was_automated"`
	PatientNotified        bool `json:"patient_notified"`
	ExplainabilityProvided bool `json:"explainability_provided"`
}

// ResultStatus is the outcome class of a state-law check.
type ResultStatus string

const (
	StatusCompliant     ResultStatus = "compliant"
	StatusNonCompliant  ResultStatus = "non_compliant"
	StatusNotApplicable ResultStatus = "not_applicable"
)

// Result is the state-law gap analysis for one decision. Unknown states
// come back not_applicable and compliant: absence of a rule is not a gap.
type Result struct {
	Compliant    bool         `json:"compliant"`
	Status       ResultStatus `json:"status"`
	StateCode    string       `json:"state_code"`
	StateName    string       `json:"state_name,omitempty"`
	Citation     string       `json:"citation,omitempty"`
	Requirements []string     `json:"requirements,omitempty"`
	Gaps         []string     `json:"gaps"`
}

// stateRules keys two-letter state codes onto their AI utilization-review
// rules. Requirement texts are phrased so the keyword matcher below can find
// them; a state that omits an obligation simply never triggers that gap.
var stateRules = map[string]StateRule{
	"CA": {
		Name:     "California",
		Citation: "Cal. Health & Safety Code § 1367.01 (SB 1120)",
		Requirements: []string{
			"A licensed physician must conduct human review of any AI-assisted adverse determination",
			"Fully automated denial of care is prohibited without clinician review",
			"Enrollees must receive notification when AI tools informed a determination",
			"Plans must provide an explanation of how AI contributed to the determination",
		},
	},
	"TX": {
		Name:     "Texas",
		Citation: "Tex. Ins. Code § 4201.156 (HB 4)",
		Requirements: []string{
			"Adverse determinations require human review by a physician of the same or similar specialty",
			"An automated system may not issue an adverse determination without physician oversight",
			"Members must receive notification of the basis for an adverse determination",
		},
	},
	"NY": {
		Name:     "New York",
		Citation: "N.Y. Ins. Law § 4903",
		Requirements: []string{
			"A clinical peer reviewer must perform human review of adverse determinations",
			"Members must receive notification of utilization review outcomes and appeal rights",
		},
	},
	"IL": {
		Name:     "Illinois",
		Citation: "215 ILCS 134/45",
		Requirements: []string{
			"A clinical peer must conduct human review before an adverse determination is final",
			"Automated denial without clinical oversight is prohibited",
		},
	},
	"CO": {
		Name:     "Colorado",
		Citation: "Colo. Rev. Stat. § 10-3-1104.9 (SB 21-169)",
		Requirements: []string{
			"Insurers must provide an explanation of algorithmic systems used in coverage decisions",
			"Consumers must receive notification when algorithms or predictive models are applied",
			"Algorithmic determinations require human review on appeal",
		},
	},
	"WA": {
		Name:     "Washington",
		Citation: "Wash. Rev. Code § 48.43.016",
		Requirements: []string{
			"Adverse determinations require human review by a licensed health care professional",
		},
	},
	"CT": {
		Name:     "Connecticut",
		Citation: "Conn. Gen. Stat. § 38a-591d",
		Requirements: []string{
			"A clinical peer must conduct human review of adverse determinations",
			"Members must receive notification describing the clinical rationale",
			"Plans must provide an explanation of criteria used, including any automated tools",
		},
	},
}

// gap predicates, each bound to the keywords that locate the matching
// requirement text in a state's rule.
var gapRules = []struct {
	applies  func(Decision) bool
	keywords []string
	gap      string
}{
	{
		applies:  func(d Decision) bool { return (d.UsedAI || d.WasAutomated) && !d.HadHumanReview },
		keywords: []string{"human review"},
		gap:      "AI-assisted determination was made without the required human review",
	},
	{
		applies:  func(d Decision) bool { return d.WasAutomated && !d.HadHumanReview },
		keywords: []string{"automated", "automatic"},
		gap:      "fully automated adverse determination was issued without clinician oversight",
	},
	{
		applies:  func(d Decision) bool { return d.UsedAI && !d.PatientNotified },
		keywords: []string{"notification", "notified"},
		gap:      "patient was not notified that AI informed the determination",
	},
	{
		applies:  func(d Decision) bool { return d.UsedAI && !d.ExplainabilityProvided },
		keywords: []string{"explanation", "explain"},
		gap:      "no explanation of the AI involvement was provided",
	},
}

// CheckState runs the state-law gap analysis for one decision. Compliant is
// true exactly when the gap list is empty.
func CheckState(stateCode string, decision Decision) Result {
	code := strings.ToUpper(strings.TrimSpace(stateCode))
	rule, ok := stateRules[code]
	if !ok {
		return Result{
			Compliant: true,
			Status:    StatusNotApplicable,
			StateCode: code,
			Gaps:      []string{},
		}
	}

	gaps := []string{}
	for _, g := range gapRules {
		if !g.applies(decision) {
			continue
		}
		if _, found := findRequirement(rule.Requirements, g.keywords); found {
			gaps = append(gaps, g.gap)
		}
	}

	status := StatusCompliant
	if len(gaps) > 0 {
		status = StatusNonCompliant
	}

	return Result{
		Compliant:    len(gaps) == 0,
		Status:       status,
		StateCode:    code,
		StateName:    rule.Name,
		Citation:     rule.Citation,
		Requirements: rule.Requirements,
		Gaps:         gaps,
	}
}

// KnownStates lists the state codes with rules in the table.
func KnownStates() []string {
	out := make([]string, 0, len(stateRules))
	for code := range stateRules {
		out = append(out, code)
	}
	return out
}

func findRequirement(requirements []string, keywords []string) (string, bool) {
	for _, req := range requirements {
		lower := strings.ToLower(req)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return req, true
			}
		}
	}
	return "", false
}
