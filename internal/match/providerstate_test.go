package match

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

func TestProviderStateAllows_NoRegexAllowsEverything(t *testing.T) {
	assert.True(t, providerStateAllows(nil, false, pact.Interaction{}))
	assert.True(t, providerStateAllows(nil, false, pact.Interaction{ProviderStates: []pact.ProviderState{{Name: "a thing exists"}}}))
}

func TestProviderStateAllows_EmptyStatesOnlyUnderFlag(t *testing.T) {
	re := regexp.MustCompile("a thing exists")
	empty := pact.Interaction{}
	assert.False(t, providerStateAllows(re, false, empty))
	assert.True(t, providerStateAllows(re, true, empty))
}

func TestProviderStateAllows_MatchesAnyState(t *testing.T) {
	re := regexp.MustCompile("^a thing exists$")
	i := pact.Interaction{ProviderStates: []pact.ProviderState{{Name: "something else"}, {Name: "a thing exists"}}}
	assert.True(t, providerStateAllows(re, false, i))
}

func TestResolveProviderStateRegex_InvalidHeaderFallsBackToCLIRegex(t *testing.T) {
	cli := regexp.MustCompile("default")
	resolved := resolveProviderStateRegex(cli, "X-Provider-State", "(", zap.NewNop())
	assert.Same(t, cli, resolved)
}

func TestResolveProviderStateRegex_ValidHeaderOverrides(t *testing.T) {
	cli := regexp.MustCompile("default")
	resolved := resolveProviderStateRegex(cli, "X-Provider-State", "^override$", zap.NewNop())
	assert.True(t, resolved.MatchString("override"))
}
