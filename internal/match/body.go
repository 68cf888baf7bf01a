package match

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// bodyMismatches compares a recorded request body against an incoming
// one. JSON object bodies are compared field by field, one Mismatch per
// differing or missing key, so Phase 3's scoring can tell a
// near-miss from a body that matches nothing at all; any other content
// type falls back to exact byte equality. When the interaction records
// body matching rules against a top-level field ("$.field"), that field
// is evaluated against the rule instead of requiring equality; fields
// with no rule still require exact equality. This covers the common
// "ignore this field's exact value" case without implementing a full
// JSONPath rule evaluator over nested paths.
func bodyMismatches(expected, actual pact.Body, rules pact.RuleCategories) []Mismatch {
	if expected.State != pact.BodyPresent {
		return nil
	}
	if actual.State != pact.BodyPresent {
		return []Mismatch{{Kind: MismatchBody, Detail: "expected a request body, got none"}}
	}

	if isJSON(expected.ContentType) && isJSON(actual.ContentType) {
		var expVal, actVal any
		errExp := json.Unmarshal(expected.Content, &expVal)
		errAct := json.Unmarshal(actual.Content, &actVal)
		if errExp == nil && errAct == nil {
			bodyRules := rules.ForCategory(pact.CategoryBody)
			expObj, okExp := expVal.(map[string]any)
			actObj, okAct := actVal.(map[string]any)
			if okExp && okAct {
				// Recurse key-by-key even with no rules declared: a
				// Mismatch per differing field is what lets Phase 3's
				// scoring tell "one field off" from "every field off"
				// apart, not just match-or-not.
				return jsonFieldMismatches(expObj, actObj, bodyRules)
			}
			if len(bodyRules) > 0 {
				if sameJSONShape(expVal, actVal) {
					return nil
				}
				return []Mismatch{{Kind: MismatchBody, Detail: "body shape did not match recorded request"}}
			}
			if reflect.DeepEqual(expVal, actVal) {
				return nil
			}
			return []Mismatch{{Kind: MismatchBody, Detail: "body did not match recorded request"}}
		}
	}

	if string(expected.Content) == string(actual.Content) {
		return nil
	}
	return []Mismatch{{Kind: MismatchBody, Detail: "body did not match recorded request"}}
}

// jsonFieldMismatches compares two JSON objects field by field: a field
// with a rule recorded at "$.<name>" is evaluated against that rule,
// any other field requires exact equality. Fields present only on the
// actual side are ignored.
func jsonFieldMismatches(expected, actual map[string]any, bodyRules map[string]pact.RuleSet) []Mismatch {
	var mismatches []Mismatch
	for key, expFieldVal := range expected {
		actFieldVal, present := actual[key]
		if ruleSet, ok := bodyRules["$."+key]; ok {
			if !present || !matchesAnyElement(ruleSet, jsonScalarString(actFieldVal)) {
				mismatches = append(mismatches, Mismatch{Kind: MismatchBody, Detail: fmt.Sprintf("body field %q did not satisfy matching rule", key)})
			}
			continue
		}
		if !present || !reflect.DeepEqual(expFieldVal, actFieldVal) {
			mismatches = append(mismatches, Mismatch{Kind: MismatchBody, Detail: fmt.Sprintf("body field %q did not match recorded request", key)})
		}
	}
	return mismatches
}

// jsonScalarString renders a decoded JSON value as the *string
// evaluateElement expects; nil maps to a nil pointer (RuleNull).
func jsonScalarString(v any) *string {
	if v == nil {
		return nil
	}
	var s string
	switch tv := v.(type) {
	case string:
		s = tv
	case float64:
		s = strconv.FormatFloat(tv, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(tv)
	default:
		raw, _ := json.Marshal(tv)
		s = string(raw)
	}
	return &s
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "json")
}

func sameJSONShape(a, b any) bool {
	return jsonKind(a) == jsonKind(b)
}

func jsonKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
