package match

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// providerStateAllows applies the provider-state filter from spec 4.C
// Phase 1: with no configured regex every interaction passes; otherwise
// an interaction passes if it has no provider states at all (only under
// --empty-provider-state) or if any of its provider-state names matches
// the regex (or is empty, again only under --empty-provider-state).
func providerStateAllows(stateRegex *regexp.Regexp, emptyProviderStates bool, interaction pact.Interaction) bool {
	if stateRegex == nil {
		return true
	}
	if len(interaction.ProviderStates) == 0 {
		return emptyProviderStates
	}
	for _, state := range interaction.ProviderStates {
		if state.Name == "" {
			if emptyProviderStates {
				return true
			}
			continue
		}
		if stateRegex.MatchString(state.Name) {
			return true
		}
	}
	return false
}

// resolveProviderStateRegex implements the provider-state-header-name
// override (spec 4.C, 9 Open Question b): when the configured header is
// present on the incoming request, its value is compiled as a regex and
// takes the place of the CLI-supplied one for this request. An invalid
// regex in the header is demoted to the CLI regex with a logged warning,
// rather than the legacy panic.
func resolveProviderStateRegex(cliRegex *regexp.Regexp, headerName, headerValue string, logger *zap.Logger) *regexp.Regexp {
	if headerName == "" || headerValue == "" {
		return cliRegex
	}
	re, err := regexp.Compile(headerValue)
	if err != nil {
		logger.Warn("invalid regex in provider-state override header, falling back to CLI regex",
			zap.String("header", headerName), zap.String("value", headerValue), zap.Error(err))
		return cliRegex
	}
	return re
}
