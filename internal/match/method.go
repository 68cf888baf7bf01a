package match

import (
	"strings"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// methodMatches compares the recorded request's method against the
// incoming request's method. The default is exact case-insensitive
// equality (spec 4.C Phase 1); per spec 9, Open Question (a), when the
// interaction's matching rules carry a method-category rule, that rule
// governs instead.
func methodMatches(expectedMethod, actualMethod string, rules pact.RuleCategories) bool {
	if rootRules, ok := rules.RootRule(pact.CategoryMethod); ok {
		return matchesAnyElement(rootRules, &actualMethod)
	}
	return strings.EqualFold(expectedMethod, actualMethod)
}

// pathMatches compares the recorded request's path against the incoming
// request's path: the interaction's path matching rule governs when
// present, otherwise exact string equality (spec 4.C Phase 1).
func pathMatches(expectedPath, actualPath string, rules pact.RuleCategories) bool {
	if rootRules, ok := rules.RootRule(pact.CategoryPath); ok {
		return matchesAnyElement(rootRules, &actualPath)
	}
	return expectedPath == actualPath
}
