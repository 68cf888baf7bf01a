package pact

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Parse upgrades a raw pact document (any JSON schema version the Pact
// ecosystem has shipped: v1, v2, v3, v4) into the common in-memory shape.
// A pact reaching the caller is already fully upgraded; nothing downstream
// of Parse ever inspects "pactSpecification" again.
//
// The matching-rule and generator grammars are treated as externally
// defined (spec 1); this parser understands the common v2 flat-path shape
// and the v3/v4 categorized shape, using a probe-struct approach (the same
// technique used throughout the pact Go ecosystem for polymorphic JSON) to
// tell them apart.
func Parse(raw []byte) (Pact, error) {
	var doc wireDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Pact{}, fmt.Errorf("parse pact document: %w", err)
	}

	p := Pact{
		Consumer:    doc.Consumer.Name,
		Provider:    doc.Provider.Name,
		SpecVersion: doc.specVersion(),
	}

	for _, raw := range doc.Interactions {
		interaction, err := upgradeInteraction(raw, InteractionHTTP)
		if err != nil {
			return Pact{}, fmt.Errorf("interaction %d: %w", len(p.Interactions), err)
		}
		p.Interactions = append(p.Interactions, interaction)
	}
	for _, raw := range doc.Messages {
		interaction, err := upgradeInteraction(raw, InteractionMessage)
		if err != nil {
			return Pact{}, fmt.Errorf("message %d: %w", len(p.Interactions), err)
		}
		p.Interactions = append(p.Interactions, interaction)
	}

	return p, nil
}

type wireParty struct {
	Name string `json:"name"`
}

type wireDocument struct {
	Consumer     wireParty         `json:"consumer"`
	Provider     wireParty         `json:"provider"`
	Interactions []json.RawMessage `json:"interactions"`
	Messages     []json.RawMessage `json:"messages"`
	Metadata     json.RawMessage   `json:"metadata"`
}

func (d wireDocument) specVersion() string {
	if len(d.Metadata) == 0 {
		return ""
	}
	var probe struct {
		PactSpecification struct {
			Version string `json:"version"`
		} `json:"pactSpecification"`
		PactSpecAlt struct {
			Version string `json:"version"`
		} `json:"pact-specification"`
	}
	_ = json.Unmarshal(d.Metadata, &probe)
	if probe.PactSpecification.Version != "" {
		return probe.PactSpecification.Version
	}
	return probe.PactSpecAlt.Version
}

type wireInteraction struct {
	Description    string            `json:"description"`
	ProviderState  *string           `json:"providerState"`
	ProviderStates []wireState       `json:"providerStates"`
	Type           string            `json:"type"` // v4: "Synchronous/HTTP", "Asynchronous/Messages", ...
	Request        json.RawMessage   `json:"request"`
	Response       json.RawMessage   `json:"response"`
	MatchingRules  json.RawMessage   `json:"matchingRules"`
	Generators     json.RawMessage   `json:"generators"`
}

type wireState struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

func upgradeInteraction(raw json.RawMessage, fallbackKind InteractionKind) (Interaction, error) {
	var wi wireInteraction
	if err := json.Unmarshal(raw, &wi); err != nil {
		return Interaction{}, err
	}

	kind := fallbackKind
	switch wi.Type {
	case "Synchronous/HTTP", "":
		if fallbackKind == InteractionHTTP || wi.Type == "Synchronous/HTTP" {
			kind = InteractionHTTP
		}
	case "Asynchronous/Messages":
		kind = InteractionAsyncMessage
	case "Synchronous/Messages":
		kind = InteractionMessage
	}

	var states []ProviderState
	if wi.ProviderState != nil && *wi.ProviderState != "" {
		states = append(states, ProviderState{Name: *wi.ProviderState})
	}
	for _, s := range wi.ProviderStates {
		states = append(states, ProviderState{Name: s.Name, Params: s.Params})
	}

	interaction := Interaction{
		Description:    wi.Description,
		ProviderStates: states,
		Kind:           kind,
	}

	// Interaction-level matchingRules/generators (v2 flat-path shape, or a
	// document that puts them outside request/response entirely).
	topRules, err := parseMatchingRules(wi.MatchingRules)
	if err != nil {
		return Interaction{}, err
	}
	topGens, err := parseGenerators(wi.Generators)
	if err != nil {
		return Interaction{}, err
	}

	if kind != InteractionHTTP {
		// Non-HTTP interactions are filtered out of matching entirely
		// (IsHTTPSync); only their interaction-level rules and generators
		// are kept, and their request/response are not parsed.
		interaction.MatchingRules = topRules
		interaction.Generators = topGens
		return interaction, nil
	}

	req, reqRules, reqGens, err := upgradeRequest(wi.Request)
	if err != nil {
		return Interaction{}, fmt.Errorf("request: %w", err)
	}
	resp, respRules, respGens, err := upgradeResponse(wi.Response)
	if err != nil {
		return Interaction{}, fmt.Errorf("response: %w", err)
	}

	interaction.Request = req
	interaction.Response = resp
	interaction.MatchingRules = mergeRuleCategories(topRules, reqRules, respRules)
	interaction.Generators = mergeGeneratorCategories(topGens, reqGens, respGens)

	return interaction, nil
}

type wireRequest struct {
	Method        string          `json:"method"`
	Path          string          `json:"path"`
	Query         json.RawMessage `json:"query"`
	Headers       json.RawMessage `json:"headers"`
	Body          json.RawMessage `json:"body"`
	MatchingRules json.RawMessage `json:"matchingRules"`
	Generators    json.RawMessage `json:"generators"`
}

func upgradeRequest(raw json.RawMessage) (Request, RuleCategories, GeneratorCategories, error) {
	if len(raw) == 0 {
		return Request{}, nil, nil, nil
	}
	var wr wireRequest
	if err := json.Unmarshal(raw, &wr); err != nil {
		return Request{}, nil, nil, err
	}
	query, err := parseQuery(wr.Query)
	if err != nil {
		return Request{}, nil, nil, err
	}
	headers, err := parseHeaders(wr.Headers)
	if err != nil {
		return Request{}, nil, nil, err
	}
	body, contentType := parseBody(wr.Body, headers)
	rules, err := parseMatchingRules(wr.MatchingRules)
	if err != nil {
		return Request{}, nil, nil, err
	}
	gens, err := parseGenerators(wr.Generators)
	if err != nil {
		return Request{}, nil, nil, err
	}
	if contentType != "" && body.State == BodyPresent && body.ContentType == "" {
		body.ContentType = contentType
	}
	return Request{
		Method:  strings.ToUpper(wr.Method),
		Path:    wr.Path,
		Query:   query,
		Headers: headers,
		Body:    body,
	}, rules, gens, nil
}

type wireResponse struct {
	Status        int             `json:"status"`
	Headers       json.RawMessage `json:"headers"`
	Body          json.RawMessage `json:"body"`
	MatchingRules json.RawMessage `json:"matchingRules"`
	Generators    json.RawMessage `json:"generators"`
}

func upgradeResponse(raw json.RawMessage) (Response, RuleCategories, GeneratorCategories, error) {
	if len(raw) == 0 {
		return Response{}, nil, nil, nil
	}
	var wr wireResponse
	if err := json.Unmarshal(raw, &wr); err != nil {
		return Response{}, nil, nil, err
	}
	headers, err := parseHeaders(wr.Headers)
	if err != nil {
		return Response{}, nil, nil, err
	}
	body, contentType := parseBody(wr.Body, headers)
	rules, err := parseMatchingRules(wr.MatchingRules)
	if err != nil {
		return Response{}, nil, nil, err
	}
	gens, err := parseGenerators(wr.Generators)
	if err != nil {
		return Response{}, nil, nil, err
	}
	if contentType != "" && body.State == BodyPresent && body.ContentType == "" {
		body.ContentType = contentType
	}
	return Response{
		Status:  wr.Status,
		Headers: headers,
		Body:    body,
	}, rules, gens, nil
}

// parseQuery handles both the v1/v2 raw-query-string shape ("a=1&a=2") and
// the v3 map[string][]string shape, preserving valueless occurrences
// ("flag" with no "=") as a nil value rather than an empty string.
func parseQuery(raw json.RawMessage) (Query, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var asMap map[string][]string
	if err := json.Unmarshal(raw, &asMap); err == nil {
		q := make(Query, len(asMap))
		for k, vs := range asMap {
			vals := make([]*string, len(vs))
			for i := range vs {
				v := vs[i]
				vals[i] = &v
			}
			q[k] = vals
		}
		return q, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err != nil {
		return nil, fmt.Errorf("unrecognized query shape: %w", err)
	}
	return parseRawQueryString(asString), nil
}

func parseRawQueryString(s string) Query {
	if s == "" {
		return nil
	}
	q := Query{}
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		if eq := strings.IndexByte(pair, '='); eq >= 0 {
			name, val := pair[:eq], pair[eq+1:]
			q[name] = append(q[name], &val)
		} else {
			q[pair] = append(q[pair], nil)
		}
	}
	return q
}

// parseHeaders handles the v1/v2 map[string]string shape and the v3
// map[string][]string / comma-joined-string shapes, always producing a
// canonicalized, case-insensitive http.Header.
func parseHeaders(raw json.RawMessage) (http.Header, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var asMulti map[string][]string
	if err := json.Unmarshal(raw, &asMulti); err == nil {
		h := http.Header{}
		for k, vs := range asMulti {
			for _, v := range vs {
				h.Add(k, v)
			}
		}
		return h, nil
	}

	var asSingle map[string]string
	if err := json.Unmarshal(raw, &asSingle); err != nil {
		return nil, fmt.Errorf("unrecognized headers shape: %w", err)
	}
	h := http.Header{}
	for k, v := range asSingle {
		h.Add(k, v)
	}
	return h, nil
}

// parseBody handles three shapes: absent (Empty), JSON null (Null), and a
// present body which may itself be encoded as a JSON string, a raw JSON
// value, or (Pact's own wrapper) {"content": ..., "contentType": ...}.
func parseBody(raw json.RawMessage, headers http.Header) (Body, string) {
	declaredType := headers.Get("Content-Type")
	if len(raw) == 0 {
		return EmptyBody(), declaredType
	}
	if string(raw) == "null" {
		return NullBody(), declaredType
	}

	var wrapper struct {
		Content     json.RawMessage `json:"content"`
		ContentType string          `json:"contentType"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Content) > 0 {
		ct := wrapper.ContentType
		if ct == "" {
			ct = declaredType
		}
		return PresentBody(bodyBytes(wrapper.Content), ct), declaredType
	}

	return PresentBody(bodyBytes(raw), declaredType), declaredType
}

func bodyBytes(raw json.RawMessage) []byte {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return []byte(asString)
	}
	return []byte(raw)
}

// -- matching rules -----------------------------------------------------

type wireMatcher struct {
	Match string  `json:"match"`
	Regex *string `json:"regex"`
	Min   *int    `json:"min"`
	Max   *int    `json:"max"`
	Value any     `json:"value"`
}

func (m wireMatcher) toRule() Rule {
	switch {
	case m.Regex != nil:
		return Rule{Type: RuleRegex, Pattern: *m.Regex}
	case m.Match == "integer":
		return Rule{Type: RuleInteger}
	case m.Match == "decimal", m.Match == "number":
		return Rule{Type: RuleDecimal}
	case m.Match == "include":
		return Rule{Type: RuleIncludes}
	case m.Match == "equality":
		return Rule{Type: RuleEqualTo}
	case m.Match == "null":
		return Rule{Type: RuleNull}
	case m.Min != nil:
		return Rule{Type: RuleMinType, Count: *m.Min}
	case m.Max != nil:
		return Rule{Type: RuleMaxType, Count: *m.Max}
	default:
		return Rule{Type: RuleTypeMatch}
	}
}

type wireRuleEntry struct {
	Matchers []wireMatcher `json:"matchers"`
}

// parseMatchingRules accepts either the v3/v4 categorized shape
// ({"path": {"matchers":[...]}, "query": {"id": {...}}, ...}) or the v2
// flat-path shape ({"$.path": {...}, "$.query.id[0]": {...}}).
func parseMatchingRules(raw json.RawMessage) (RuleCategories, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("unrecognized matchingRules shape: %w", err)
	}

	out := RuleCategories{}
	for key, value := range generic {
		if strings.HasPrefix(key, "$") {
			category, selector := splitFlatSelector(key)
			addRuleEntry(out, category, selector, value)
			continue
		}
		category := RuleCategory(key)
		switch category {
		case CategoryPath:
			addRuleEntry(out, category, "$", value)
		case CategoryMethod:
			addRuleEntry(out, category, "$", value)
		default:
			var bySelector map[string]json.RawMessage
			if err := json.Unmarshal(value, &bySelector); err != nil {
				// A bare rule-entry directly under the category (some v3
				// generators/producers do this for single-value categories).
				addRuleEntry(out, category, "$", value)
				continue
			}
			for selector, entry := range bySelector {
				addRuleEntry(out, category, selector, entry)
			}
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func addRuleEntry(out RuleCategories, category RuleCategory, selector string, raw json.RawMessage) {
	var entry wireRuleEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return
	}
	if len(entry.Matchers) == 0 {
		return
	}
	rules := make(RuleSet, 0, len(entry.Matchers))
	for _, m := range entry.Matchers {
		rules = append(rules, m.toRule())
	}
	if out[category] == nil {
		out[category] = map[string]RuleSet{}
	}
	out[category][selector] = rules
}

// splitFlatSelector turns a v2 flat path like "$.query.ids[0]" into
// (category "query", selector "ids[0]"), or "$.path" into
// (category "path", selector "$").
func splitFlatSelector(key string) (RuleCategory, string) {
	trimmed := strings.TrimPrefix(key, "$.")
	parts := strings.SplitN(trimmed, ".", 2)
	category := RuleCategory(parts[0])
	if len(parts) == 1 {
		return category, "$"
	}
	return category, parts[1]
}

func mergeRuleCategories(parts ...RuleCategories) RuleCategories {
	var out RuleCategories
	for _, part := range parts {
		for cat, sel := range part {
			if out == nil {
				out = RuleCategories{}
			}
			if out[cat] == nil {
				out[cat] = map[string]RuleSet{}
			}
			for k, v := range sel {
				out[cat][k] = v
			}
		}
	}
	return out
}

// -- generators -----------------------------------------------------------

type wireGenerator struct {
	Type   string `json:"type"`
	Format string `json:"format"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
}

func parseGenerators(raw json.RawMessage) (GeneratorCategories, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("unrecognized generators shape: %w", err)
	}
	out := GeneratorCategories{}
	for key, value := range generic {
		category := GeneratorCategory(key)
		var single wireGenerator
		if err := json.Unmarshal(value, &single); err == nil && single.Type != "" {
			setGenerator(out, category, "$", single)
			continue
		}
		var bySelector map[string]wireGenerator
		if err := json.Unmarshal(value, &bySelector); err == nil {
			for selector, g := range bySelector {
				setGenerator(out, category, selector, g)
			}
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func setGenerator(out GeneratorCategories, category GeneratorCategory, selector string, g wireGenerator) {
	if out[category] == nil {
		out[category] = map[string]Generator{}
	}
	out[category][selector] = Generator{
		Type:   GeneratorType(g.Type),
		Format: g.Format,
		Min:    g.Min,
		Max:    g.Max,
	}
}

func mergeGeneratorCategories(parts ...GeneratorCategories) GeneratorCategories {
	var out GeneratorCategories
	for _, part := range parts {
		for cat, sel := range part {
			if out == nil {
				out = GeneratorCategories{}
			}
			if out[cat] == nil {
				out[cat] = map[string]Generator{}
			}
			for k, v := range sel {
				out[cat][k] = v
			}
		}
	}
	return out
}
