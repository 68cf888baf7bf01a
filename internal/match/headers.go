package match

import (
	"fmt"
	"net/http"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// headerMismatches compares recorded headers against the incoming
// request's headers. Only headers the interaction actually recorded are
// checked — an incoming request is free to carry extra headers the pact
// never mentioned. Header names are matched case-insensitively via
// net/http.Header's own canonicalization.
func headerMismatches(expected, actual http.Header, rules pact.RuleCategories) []Mismatch {
	selectors := rules.ForCategory(pact.CategoryHeader)

	var mismatches []Mismatch
	for name, expVals := range expected {
		actVals := actual[name]

		if ruleSet, ok := selectors[name]; ok {
			for _, v := range actVals {
				v := v
				if !matchesAnyElement(ruleSet, &v) {
					mismatches = append(mismatches, Mismatch{
						Kind:   MismatchHeader,
						Detail: fmt.Sprintf("header '%s': value did not satisfy matching rule", name),
					})
					break
				}
			}
			continue
		}

		if !stringSliceEqual(expVals, actVals) {
			mismatches = append(mismatches, Mismatch{
				Kind:   MismatchHeader,
				Detail: fmt.Sprintf("header '%s': expected %v, got %v", name, expVals, actVals),
			})
		}
	}
	return mismatches
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
