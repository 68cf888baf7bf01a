package pact

// RuleCategory names one of the per-field matching-rule buckets a pact
// document can carry. The set is open in principle (new categories can
// appear in newer spec versions) but the matcher only consults the five
// named here.
type RuleCategory string

const (
	CategoryMethod RuleCategory = "method"
	CategoryPath   RuleCategory = "path"
	CategoryQuery  RuleCategory = "query"
	CategoryHeader RuleCategory = "header"
	CategoryBody   RuleCategory = "body"
)

// RuleType names one matching-rule kind. The grammar of rules is treated
// as externally defined (spec 1); this is the subset the engine must be
// able to evaluate. Unrecognized rule types are treated as satisfied
// (no-ops) rather than causing a panic, consistent with "the engine never
// throws" (spec 9).
type RuleType string

const (
	RuleTypeMatch RuleType = "type"
	RuleMinType   RuleType = "minType"
	RuleMaxType   RuleType = "maxType"
	RuleInteger   RuleType = "integer"
	RuleDecimal   RuleType = "decimal"
	RuleRegex     RuleType = "regex"
	RuleEqualTo   RuleType = "equality"
	RuleIncludes  RuleType = "include"
	RuleNull      RuleType = "null"
)

// Rule is one matching-rule instance: a kind plus whatever parameters
// that kind needs (Regex.Pattern, MinType/MaxType.Count, ...).
type Rule struct {
	Type    RuleType
	Pattern string // Regex
	Count   int    // MinType, MaxType
}

// RuleSet is the list of rules recorded against one selector. Per the
// Pact matching-rule spec a selector's rules combine with OR semantics:
// the value matches if it satisfies any rule in the set. An empty set
// paired with a present selector entry is never produced by a conforming
// document; callers should not assume it does anything.
type RuleSet []Rule

// RuleCategories is the full per-interaction matching-rule document: a
// category name maps to a map from JSON-path-like selector to the rules
// recorded against it.
type RuleCategories map[RuleCategory]map[string]RuleSet

// ForCategory returns the selector map for a category, or nil if the
// interaction records no rules in that category.
func (r RuleCategories) ForCategory(c RuleCategory) map[string]RuleSet {
	if r == nil {
		return nil
	}
	return r[c]
}

// RootRule returns the rule set recorded against the category's root
// selector ("$"), which is how a whole-field rule (e.g. a `method` rule
// overriding exact-equality comparison, spec 9(a)) is expressed.
func (r RuleCategories) RootRule(c RuleCategory) (RuleSet, bool) {
	sel := r.ForCategory(c)
	if sel == nil {
		return nil, false
	}
	for _, key := range []string{"$", ""} {
		if rs, ok := sel[key]; ok {
			return rs, true
		}
	}
	return nil, false
}

// GeneratorCategory mirrors RuleCategory for the generator document.
type GeneratorCategory string

const (
	GenCategoryPath   GeneratorCategory = "path"
	GenCategoryQuery  GeneratorCategory = "query"
	GenCategoryHeader GeneratorCategory = "header"
	GenCategoryBody   GeneratorCategory = "body"
	GenCategoryStatus GeneratorCategory = "status"
)

// GeneratorType names one value-synthesis strategy applied at
// response-render time.
type GeneratorType string

const (
	GeneratorDate        GeneratorType = "Date"
	GeneratorTime        GeneratorType = "Time"
	GeneratorDateTime    GeneratorType = "DateTime"
	GeneratorRandomInt   GeneratorType = "RandomInt"
	GeneratorUUID        GeneratorType = "Uuid"
	GeneratorMockServer  GeneratorType = "MockServerURL"
)

// Generator is one field rewriter: a type plus the format string or
// parameters it needs.
type Generator struct {
	Type   GeneratorType
	Format string
	Min    int
	Max    int
}

// GeneratorCategories is the full per-interaction generator document.
type GeneratorCategories map[GeneratorCategory]map[string]Generator

// ForCategory returns the selector map for a generator category, or nil.
func (g GeneratorCategories) ForCategory(c GeneratorCategory) map[string]Generator {
	if g == nil {
		return nil
	}
	return g[c]
}
