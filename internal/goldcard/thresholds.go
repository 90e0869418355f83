package goldcard

import "strings"

// Canonical payer keys.
const (
	PayerUnitedHealthcare = "unitedhealthcare"
	PayerAetna            = "aetna"
	PayerCigna            = "cigna"
	PayerElevance         = "elevance"
	PayerHumana           = "humana"
	PayerBCBS             = "bcbs"
	PayerDefault          = "default"
)

// thresholds is the fixed payer gold-card table. The default entry mirrors
// the strictest national payer so an unrecognized payer is never evaluated
// against a softer bar than it might actually have.
var thresholds = map[string]Threshold{
	PayerUnitedHealthcare: {ApprovalRate: 92, LookbackMonths: 12, MinOrderCount: 100},
	PayerAetna:            {ApprovalRate: 90, LookbackMonths: 6, MinOrderCount: 50},
	PayerCigna:            {ApprovalRate: 91, LookbackMonths: 12, MinOrderCount: 80},
	PayerElevance:         {ApprovalRate: 90, LookbackMonths: 12, MinOrderCount: 75},
	PayerHumana:           {ApprovalRate: 93, LookbackMonths: 12, MinOrderCount: 60},
	PayerBCBS:             {ApprovalRate: 89, LookbackMonths: 6, MinOrderCount: 60},
	PayerDefault:          {ApprovalRate: 92, LookbackMonths: 12, MinOrderCount: 100},
}

// payerAliases maps identifier substrings onto canonical keys. Intake
// systems send anything from "UHC Community Plan TX" to "Anthem BCBS of
// Ohio"; first alias hit wins, checked in a fixed order so resolution stays
// deterministic.
var payerAliases = []struct {
	substring string
	key       string
}{
	{"unitedhealthcare", PayerUnitedHealthcare},
	{"united health", PayerUnitedHealthcare},
	{"united", PayerUnitedHealthcare},
	{"uhc", PayerUnitedHealthcare},
	{"optum", PayerUnitedHealthcare},
	{"aetna", PayerAetna},
	{"cigna", PayerCigna},
	{"evernorth", PayerCigna},
	{"elevance", PayerElevance},
	{"anthem", PayerElevance},
	{"humana", PayerHumana},
	{"blue cross", PayerBCBS},
	{"blue shield", PayerBCBS},
	{"bcbs", PayerBCBS},
	{"highmark", PayerBCBS},
}

// ResolvePayer canonicalizes a free-text payer identifier. Unrecognized
// identifiers resolve to the default entry with Fallback set, so callers can
// tell a real match from a degraded one.
func ResolvePayer(payerID string) Resolution {
	s := strings.ToLower(strings.TrimSpace(payerID))
	for _, alias := range payerAliases {
		if strings.Contains(s, alias.substring) {
			return Resolution{PayerKey: alias.key}
		}
	}
	return Resolution{PayerKey: PayerDefault, Fallback: true}
}

// ThresholdFor returns the threshold for a canonical payer key, falling back
// to the default entry.
func ThresholdFor(payerKey string) Threshold {
	if t, ok := thresholds[payerKey]; ok {
		return t
	}
	return thresholds[PayerDefault]
}
