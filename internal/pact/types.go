// Package pact defines the in-memory contract model: pacts, interactions,
// requests, responses, matching rules, and generators. Every pact reaching
// the registry has already been upgraded to this common (v4-equivalent)
// shape; the matcher never sees a legacy document.
package pact

import "net/http"

// InteractionKind discriminates the interaction's wire protocol. The
// matching engine only operates on InteractionHTTP; other kinds are
// filtered out via IsHTTPSync.
type InteractionKind int

const (
	InteractionHTTP InteractionKind = iota
	InteractionMessage
	InteractionAsyncMessage
)

// Pact is a named (consumer, provider) pair plus an ordered sequence of
// interactions. Interactions retain insertion order.
type Pact struct {
	Consumer     string
	Provider     string
	Interactions []Interaction

	// SpecVersion records the document's original schema version string
	// (e.g. "2.0.0", "3.0.0", "4.0") prior to upgrade, for diagnostics only.
	SpecVersion string
}

// ProviderState is a named precondition, optionally parameterized, that
// must hold for an interaction to apply.
type ProviderState struct {
	Name   string
	Params map[string]any
}

// Interaction is one recorded request/response pair inside a pact.
type Interaction struct {
	Description    string
	ProviderStates []ProviderState
	Request        Request
	Response       Response
	MatchingRules  RuleCategories
	Generators     GeneratorCategories
	Kind           InteractionKind
}

// IsHTTPSync reports whether this interaction is the synchronous HTTP
// variant the matching engine operates on.
func (i Interaction) IsHTTPSync() bool { return i.Kind == InteractionHTTP }

// BodyState discriminates an OptionalBody: no body was recorded at all,
// a body was recorded as explicitly null, or a body is present with bytes.
type BodyState int

const (
	BodyEmpty BodyState = iota
	BodyNull
	BodyPresent
)

// Body is the optional request/response payload. ContentType is the
// body's own declared type, distinct from any Content-Type header the
// surrounding Request/Response may carry.
type Body struct {
	State       BodyState
	Content     []byte
	ContentType string
}

// EmptyBody returns a Body with no payload recorded.
func EmptyBody() Body { return Body{State: BodyEmpty} }

// NullBody returns a Body explicitly recorded as null.
func NullBody() Body { return Body{State: BodyNull} }

// PresentBody returns a Body with bytes and an optional declared content type.
func PresentBody(content []byte, contentType string) Body {
	return Body{State: BodyPresent, Content: content, ContentType: contentType}
}

// IsPresent reports whether the body carries bytes.
func (b Body) IsPresent() bool { return b.State == BodyPresent }

// Query is the ordered-multi-value query-string representation: a
// parameter name may repeat, and an occurrence may carry no value
// (nil) at all, e.g. "?flag&flag=1".
type Query map[string][]*string

// Request is a recorded or incoming HTTP request. Headers use
// net/http.Header, which is itself an ordered-sequence-of-values map
// with case-insensitive canonicalized keys — the exact representation
// spec 3 calls for.
type Request struct {
	Method  string
	Path    string
	Query   Query
	Headers http.Header
	Body    Body
}

// Response is a recorded or synthesized HTTP response.
type Response struct {
	Status  int
	Headers http.Header
	Body    Body
}
