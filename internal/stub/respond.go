package stub

import (
	"net/http"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// writeResponse serializes an internal Response to the wire with the
// post-processing rules from spec 4.D:
//   - if the response lacks Access-Control-Allow-Origin, inject "*";
//   - if the response body is present and the response lacks
//     Content-Type, inject the body's declared content type, falling
//     back to the response's own declared content type, falling back to
//     "text/plain";
//   - preserve all other headers verbatim, including repeated headers.
//
// The two injections are independent checks against the originally
// recorded headers, not a pipeline — matching
// original_source/src/pact_support.rs::pact_response_to_hyper_response.
func writeResponse(w http.ResponseWriter, resp pact.Response) {
	header := w.Header()
	for name, values := range resp.Headers {
		for _, v := range values {
			header.Add(name, v)
		}
	}

	if header.Get("Access-Control-Allow-Origin") == "" {
		header.Set("Access-Control-Allow-Origin", "*")
	}

	if resp.Body.IsPresent() && header.Get("Content-Type") == "" {
		header.Set("Content-Type", contentTypeFor(resp.Body))
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if resp.Body.IsPresent() {
		_, _ = w.Write(resp.Body.Content)
	}
}

// contentTypeFor resolves the Content-Type fallback chain: the body's
// own declared type, then the response's declared type (both end up on
// Body.ContentType after the pact upgrade — see pact.upgradeResponse),
// then "text/plain".
func contentTypeFor(body pact.Body) string {
	if body.ContentType != "" {
		return body.ContentType
	}
	return "text/plain"
}

// writeNotFound emits the 404 spec 4.D requires when no interaction
// matched and no CORS fallback applied. When auto-CORS is enabled the
// 404 still carries Access-Control-Allow-Origin: *.
func writeNotFound(w http.ResponseWriter, autoCORS bool) {
	if autoCORS {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}
	w.WriteHeader(http.StatusNotFound)
}
