package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

func TestBuildConfig_RequiresAtLeastOneSource(t *testing.T) {
	_, err := BuildConfig(Flags{})
	assert.Error(t, err)
	assert.IsType(t, &ParseError{}, err)
}

func TestBuildConfig_ExtensionRequiresDir(t *testing.T) {
	_, err := BuildConfig(Flags{Files: []string{"a.json"}, Extension: "json"})
	assert.Error(t, err)
}

func TestBuildConfig_CORSRefererRequiresCORS(t *testing.T) {
	_, err := BuildConfig(Flags{Files: []string{"a.json"}, CORSReferer: true})
	assert.Error(t, err)
}

func TestBuildConfig_EmptyProviderStateRequiresProviderState(t *testing.T) {
	_, err := BuildConfig(Flags{Files: []string{"a.json"}, EmptyProviderState: true})
	assert.Error(t, err)
}

func TestBuildConfig_BrokerFiltersRequireBrokerURL(t *testing.T) {
	_, err := BuildConfig(Flags{Files: []string{"a.json"}, ConsumerNamePatterns: []string{"^foo$"}})
	assert.Error(t, err)
}

func TestBuildConfig_UserAndTokenConflict(t *testing.T) {
	_, err := BuildConfig(Flags{Files: []string{"a.json"}, User: "bob", Token: "tok"})
	assert.Error(t, err)
}

func TestBuildConfig_BrokerURLFromEnv(t *testing.T) {
	t.Setenv("PACT_BROKER_BASE_URL", "https://broker.example.com")
	cfg, err := BuildConfig(Flags{})
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, pact.SourceBroker, cfg.Sources[0].Kind)
	assert.Equal(t, "https://broker.example.com", cfg.Sources[0].URL)
}

func TestBuildConfig_UserWithPasswordSplitsOnColon(t *testing.T) {
	cfg, err := BuildConfig(Flags{URLs: []string{"https://example.com/pact.json"}, User: "alice:secret"})
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 1)
	auth := cfg.Sources[0].Auth
	require.NotNil(t, auth)
	assert.Equal(t, pact.AuthBasic, auth.Kind)
	assert.Equal(t, "alice", auth.User)
	require.NotNil(t, auth.Password)
	assert.Equal(t, "secret", *auth.Password)
}

func TestBuildConfig_ValidProviderStateRegex(t *testing.T) {
	cfg, err := BuildConfig(Flags{Files: []string{"a.json"}, ProviderState: "^it (is|was).*"})
	require.NoError(t, err)
	require.NotNil(t, cfg.ProviderStateRegex)
	assert.True(t, cfg.ProviderStateRegex.MatchString("it is raining"))
}

func TestBuildConfig_InvalidProviderStateRegexIsAParseError(t *testing.T) {
	_, err := BuildConfig(Flags{Files: []string{"a.json"}, ProviderState: "("})
	assert.Error(t, err)
}

func TestBuildConfig_DefaultExtensionIsJSON(t *testing.T) {
	cfg, err := BuildConfig(Flags{Dirs: []string{"."}})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Extension)
}
