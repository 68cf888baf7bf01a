// Package stub implements the HTTP runtime (spec 4.D): binds a port,
// serves requests concurrently, converts wire requests/responses to and
// from the internal model, and applies the response post-processing
// rules (CORS origin injection, Content-Type fallback).
package stub

import (
	"io"
	"net/http"
	"net/url"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// requestFromWire converts an incoming *http.Request into the internal
// Request model: the query string is parsed into the ordered multi-value
// map (preserving valueless occurrences), and headers are carried over
// via net/http.Header's own case-insensitive, ordered-values
// representation.
func requestFromWire(r *http.Request) (pact.Request, error) {
	query := pact.Query{}
	for name, vals := range r.URL.Query() {
		// net/url's Query() does not distinguish "flag" from "flag=";
		// both decode to a present empty string. Re-derive valueless
		// occurrences from the raw query string to preserve spec 3's
		// "may have no value" semantics.
		query[name] = vals2ptrs(vals)
	}
	restoreValuelessOccurrences(r.URL.RawQuery, query)

	var body pact.Body
	if r.Body != nil && r.ContentLength != 0 {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return pact.Request{}, err
		}
		if len(raw) > 0 {
			body = pact.PresentBody(raw, r.Header.Get("Content-Type"))
		} else {
			body = pact.EmptyBody()
		}
	} else {
		body = pact.EmptyBody()
	}

	return pact.Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   query,
		Headers: r.Header.Clone(),
		Body:    body,
	}, nil
}

func vals2ptrs(vals []string) []*string {
	out := make([]*string, len(vals))
	for i := range vals {
		v := vals[i]
		out[i] = &v
	}
	return out
}

// restoreValuelessOccurrences walks the raw query string and nils out
// any occurrence that carried no "=" at all, since url.Values collapses
// that to an empty string.
func restoreValuelessOccurrences(raw string, query pact.Query) {
	if raw == "" {
		return
	}
	seen := map[string]int{}
	for _, pair := range splitAmp(raw) {
		if pair == "" {
			continue
		}
		name, hasEq := splitOnce(pair, '=')
		decoded, err := decodeQueryComponent(name)
		if err != nil {
			continue
		}
		idx := seen[decoded]
		seen[decoded]++
		vals := query[decoded]
		if idx >= len(vals) {
			continue
		}
		if !hasEq {
			vals[idx] = nil
		}
	}
}

func splitAmp(raw string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] == '&' {
			parts = append(parts, raw[start:i])
			start = i + 1
		}
	}
	parts = append(parts, raw[start:])
	return parts
}

func splitOnce(pair string, sep byte) (string, bool) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == sep {
			return pair[:i], true
		}
	}
	return pair, false
}

func decodeQueryComponent(s string) (string, error) {
	return url.QueryUnescape(s)
}
