// Package member holds the canonical loyalty-tag comparison rule. The
// checkout-time evaluators only ever receive the resolved boolean signal; the
// external member lookup and the admin debug surface must both apply this
// normalization so their answers stay consistent.
package member

import "strings"

// Normalize trims surrounding whitespace and lowercases a tag for comparison.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// HasTag reports whether any of the buyer's tags equals the configured tag
// under case-insensitive, whitespace-trimmed comparison. An empty configured
// tag matches nothing.
func HasTag(tags []string, configured string) bool {
	want := Normalize(configured)
	if want == "" {
		return false
	}
	for _, tag := range tags {
		if Normalize(tag) == want {
			return true
		}
	}
	return false
}
