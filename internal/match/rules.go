package match

import (
	"regexp"
	"strconv"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// evaluateElement applies one matching rule to a single scalar value
// (a query parameter occurrence, a header value). nil means the
// occurrence carried no value at all (e.g. a bare query flag).
func evaluateElement(rule pact.Rule, value *string) bool {
	switch rule.Type {
	case pact.RuleTypeMatch:
		// "same type as recorded" — query/header values are always
		// strings on the wire, so Type only asks that a value is present.
		return value != nil
	case pact.RuleRegex:
		if value == nil {
			return false
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(*value)
	case pact.RuleInteger:
		if value == nil {
			return false
		}
		_, err := strconv.ParseInt(*value, 10, 64)
		return err == nil
	case pact.RuleDecimal:
		if value == nil {
			return false
		}
		_, err := strconv.ParseFloat(*value, 64)
		return err == nil
	case pact.RuleNull:
		return value == nil
	case pact.RuleEqualTo, pact.RuleIncludes:
		return value != nil
	default:
		// Unrecognized rule kinds are tolerated as non-disqualifying
		// (spec 9: "the engine never throws").
		return true
	}
}

// evaluateCount applies a cardinality rule (MinType/MaxType) to the
// number of occurrences recorded for a repeated field.
func evaluateCount(rule pact.Rule, count int) bool {
	switch rule.Type {
	case pact.RuleMinType:
		return count >= rule.Count
	case pact.RuleMaxType:
		return count <= rule.Count
	default:
		return true
	}
}

// isCountRule reports whether rule constrains the occurrence count
// rather than a single element's value.
func isCountRule(rule pact.Rule) bool {
	return rule.Type == pact.RuleMinType || rule.Type == pact.RuleMaxType
}
