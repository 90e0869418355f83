// Package strings holds small list-cleaning helpers for free-text
// clinical fields.
package strings

import "strings"

// DedupeAndTrim trims whitespace from every element and drops empties
// and duplicates, keeping first-seen order. Intake lists such as red
// flags and conservative treatments pass through here before scoring,
// so a payer portal that submits "  MRI " and "MRI" counts once.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	out := values[:0:0]
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
