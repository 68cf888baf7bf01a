package match

import (
	"fmt"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// queryMismatches compares the recorded query (expected) against the
// incoming query (actual), honoring any query matching rules.
//
// A rule recorded against the bare parameter name (e.g. "ids") is
// evaluated as a cardinality constraint over the whole occurrence list
// (MinType/MaxType); a rule recorded against "name[*]" is evaluated
// against every individual occurrence (Type, Regex, Integer, ...), per
// spec 8 scenario 6. A parameter with no rule at all falls back to exact
// ordered-sequence equality.
func queryMismatches(expected, actual pact.Query, rules pact.RuleCategories) []Mismatch {
	selectors := rules.ForCategory(pact.CategoryQuery)

	names := map[string]struct{}{}
	for k := range expected {
		names[k] = struct{}{}
	}
	for k := range actual {
		names[k] = struct{}{}
	}

	var mismatches []Mismatch
	for name := range names {
		expVals := expected[name]
		actVals := actual[name]

		countRule, hasCount := findCountRule(selectors[name])
		elemRules, hasElem := selectors[name+"[*]"]

		switch {
		case hasCount || hasElem:
			if hasCount && !evaluateCount(countRule, len(actVals)) {
				mismatches = append(mismatches, Mismatch{
					Kind:   MismatchQuery,
					Detail: fmt.Sprintf("query '%s': %d values do not satisfy %s(%d)", name, len(actVals), countRule.Type, countRule.Count),
				})
				continue
			}
			if hasElem {
				for _, v := range actVals {
					if !matchesAnyElement(elemRules, v) {
						mismatches = append(mismatches, Mismatch{
							Kind:   MismatchQuery,
							Detail: fmt.Sprintf("query '%s': value did not satisfy matching rule", name),
						})
						break
					}
				}
			}
		default:
			if !queryValuesEqual(expVals, actVals) {
				mismatches = append(mismatches, Mismatch{
					Kind:   MismatchQuery,
					Detail: fmt.Sprintf("query '%s': expected %v, got %v", name, renderValues(expVals), renderValues(actVals)),
				})
			}
		}
	}
	return mismatches
}

func findCountRule(rules pact.RuleSet) (pact.Rule, bool) {
	for _, r := range rules {
		if isCountRule(r) {
			return r, true
		}
	}
	return pact.Rule{}, false
}

func matchesAnyElement(rules pact.RuleSet, value *string) bool {
	if len(rules) == 0 {
		return true
	}
	for _, r := range rules {
		if isCountRule(r) {
			continue
		}
		if evaluateElement(r, value) {
			return true
		}
	}
	return false
}

func queryValuesEqual(a, b []*string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if (a[i] == nil) != (b[i] == nil) {
			return false
		}
		if a[i] != nil && *a[i] != *b[i] {
			return false
		}
	}
	return true
}

func renderValues(vals []*string) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		if v == nil {
			out[i] = "<none>"
		} else {
			out[i] = *v
		}
	}
	return out
}
