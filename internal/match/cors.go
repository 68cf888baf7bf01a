package match

import (
	"net/http"
	"strings"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// corsAllowMethods is the fixed method list spec 4.C requires on the
// synthesized CORS preflight reply.
const corsAllowMethods = "GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH"

// corsFallback synthesizes the CORS preflight reply spec 4.C describes,
// used only when no interaction matched, auto-CORS is enabled, and the
// incoming request is an OPTIONS request.
func corsFallback(req pact.Request, refererOrigin bool) pact.Response {
	headers := http.Header{}
	headers.Set("Access-Control-Allow-Headers", "*")
	headers.Set("Access-Control-Allow-Methods", corsAllowMethods)
	headers.Set("Access-Control-Allow-Origin", corsOrigin(req, refererOrigin))
	return pact.Response{Status: 200, Headers: headers, Body: pact.EmptyBody()}
}

func corsOrigin(req pact.Request, refererOrigin bool) string {
	if !refererOrigin {
		return "*"
	}
	referer := req.Headers.Values("Referer")
	if len(referer) == 0 {
		return "*"
	}
	return strings.Join(referer, ", ")
}

func eligibleForCORS(req pact.Request, autoCORS bool) bool {
	return autoCORS && strings.EqualFold(req.Method, "OPTIONS")
}
