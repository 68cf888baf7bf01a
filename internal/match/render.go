package match

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// render runs the generator engine over the chosen interaction's
// recorded response in "provider" mode: generators rewrite specified
// fields (dates, UUIDs, random values) in place of the recorded literal,
// per spec 4.C "Response rendering". A response with no generators is
// returned unchanged.
func render(resp pact.Response, generators pact.GeneratorCategories) pact.Response {
	if len(generators) == 0 {
		return resp
	}

	out := pact.Response{Status: resp.Status, Headers: resp.Headers.Clone(), Body: resp.Body}

	if sel := generators.ForCategory(pact.GenCategoryStatus); sel != nil {
		if g, ok := sel["$"]; ok {
			out.Status = int(generateInt(g, int64(resp.Status)))
		}
	}

	if sel := generators.ForCategory(pact.GenCategoryHeader); sel != nil {
		for name, g := range sel {
			out.Headers.Set(name, generateString(g))
		}
	}

	if sel := generators.ForCategory(pact.GenCategoryBody); sel != nil && out.Body.IsPresent() {
		out.Body = applyBodyGenerators(out.Body, sel)
	}

	return out
}

func generateString(g pact.Generator) string {
	now := time.Now().UTC()
	switch g.Type {
	case pact.GeneratorDate:
		return formatGoDate(g.Format, now, "2006-01-02")
	case pact.GeneratorTime:
		return formatGoDate(g.Format, now, "15:04:05")
	case pact.GeneratorDateTime:
		return formatGoDate(g.Format, now, time.RFC3339)
	case pact.GeneratorUUID:
		return uuid.NewString()
	case pact.GeneratorRandomInt:
		return strconv.FormatInt(generateInt(g, 0), 10)
	default:
		return ""
	}
}

func generateInt(g pact.Generator, fallback int64) int64 {
	if g.Type != pact.GeneratorRandomInt {
		return fallback
	}
	lo, hi := g.Min, g.Max
	if hi <= lo {
		return int64(lo)
	}
	// Deterministic midpoint rather than a random draw: the stub server
	// has no seeded RNG requirement in spec 4.C, and a fixed value keeps
	// repeated requests against the same interaction observationally
	// stable, which matches the matcher's own determinism invariant
	// (spec 8).
	return int64(lo + (hi-lo)/2)
}

// formatGoDate maps a handful of common Pact/Java date-format tokens to
// Go's reference-time layout; an empty format falls back to the given
// default layout. Other characters of a non-empty format are passed to
// time.Format unchanged.
func formatGoDate(format string, t time.Time, fallback string) string {
	layout := fallback
	if format != "" {
		layout = javaToGoLayout(format)
	}
	return t.Format(layout)
}

func javaToGoLayout(format string) string {
	replacer := strings.NewReplacer(
		"yyyy", "2006",
		"MM", "01",
		"dd", "02",
		"HH", "15",
		"mm", "04",
		"ss", "05",
	)
	return replacer.Replace(format)
}

func applyBodyGenerators(body pact.Body, selectors map[string]pact.Generator) pact.Body {
	if !isJSON(body.ContentType) {
		return body
	}
	var doc any
	if err := json.Unmarshal(body.Content, &doc); err != nil {
		return body
	}
	for selector, g := range selectors {
		setAtSelector(doc, selector, generateString(g))
	}
	rewritten, err := json.Marshal(doc)
	if err != nil {
		return body
	}
	return pact.PresentBody(rewritten, body.ContentType)
}

// setAtSelector walks a dotted "$.a.b" style selector and overwrites the
// leaf field in place. Array-indexed selectors and selectors into
// non-object documents are left untouched — generator selectors are an
// externally-defined grammar (spec 1) and this covers the common
// object-field case without a full JSONPath implementation.
func setAtSelector(doc any, selector string, value string) {
	parts := strings.Split(strings.TrimPrefix(selector, "$."), ".")
	if len(parts) == 0 {
		return
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return
	}
	for _, key := range parts[:len(parts)-1] {
		next, ok := obj[key].(map[string]any)
		if !ok {
			return
		}
		obj = next
	}
	leaf := parts[len(parts)-1]
	if _, exists := obj[leaf]; exists {
		obj[leaf] = value
	}
}
