package match

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// Grounded on spec 4.C scenario 3 and 4 (CORS preflight / referer-backed CORS).
func TestCORSFallback_WildcardOrigin(t *testing.T) {
	req := pact.Request{Method: "OPTIONS", Headers: http.Header{}}
	resp := corsFallback(req, false)

	assert.Equal(t, "*", resp.Headers.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "*", resp.Headers.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, corsAllowMethods, resp.Headers.Get("Access-Control-Allow-Methods"))
}

func TestCORSFallback_RefererOrigin(t *testing.T) {
	headers := http.Header{}
	headers.Set("Referer", "https://a.example")
	req := pact.Request{Method: "OPTIONS", Headers: headers}

	resp := corsFallback(req, true)
	assert.Equal(t, "https://a.example", resp.Headers.Get("Access-Control-Allow-Origin"))
}

func TestCORSFallback_RefererOriginFallsBackToWildcardWhenAbsent(t *testing.T) {
	req := pact.Request{Method: "OPTIONS", Headers: http.Header{}}
	resp := corsFallback(req, true)
	assert.Equal(t, "*", resp.Headers.Get("Access-Control-Allow-Origin"))
}

func TestEligibleForCORS(t *testing.T) {
	assert.True(t, eligibleForCORS(pact.Request{Method: "OPTIONS"}, true))
	assert.False(t, eligibleForCORS(pact.Request{Method: "OPTIONS"}, false))
	assert.False(t, eligibleForCORS(pact.Request{Method: "GET"}, true))
}
