package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

func TestMethodMatches_CaseInsensitiveByDefault(t *testing.T) {
	assert.True(t, methodMatches("get", "GET", nil))
	assert.False(t, methodMatches("GET", "POST", nil))
}

// Open Question (a): a method-category rule governs instead of exact equality.
func TestMethodMatches_HonorsMethodRule(t *testing.T) {
	rules := pact.RuleCategories{
		pact.CategoryMethod: {"$": pact.RuleSet{{Type: pact.RuleRegex, Pattern: "^(GET|HEAD)$"}}},
	}
	assert.True(t, methodMatches("GET", "HEAD", rules))
	assert.False(t, methodMatches("GET", "POST", rules))
}

func TestPathMatches_ExactByDefault(t *testing.T) {
	assert.True(t, pathMatches("/things", "/things", nil))
	assert.False(t, pathMatches("/things", "/other", nil))
}

func TestPathMatches_HonorsPathRule(t *testing.T) {
	rules := pact.RuleCategories{
		pact.CategoryPath: {"$": pact.RuleSet{{Type: pact.RuleRegex, Pattern: "^/things/\\d+$"}}},
	}
	assert.True(t, pathMatches("/things/1", "/things/42", rules))
}
