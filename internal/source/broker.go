package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"

	"go.uber.org/zap"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// halLink is one HAL link relation entry.
type halLink struct {
	Href  string `json:"href"`
	Title string `json:"title"`
}

type halDocument struct {
	Links map[string]json.RawMessage `json:"_links"`
}

// link returns the single link registered under rel.
func (d halDocument) link(rel string) (halLink, bool) {
	raw, ok := d.Links[rel]
	if !ok {
		return halLink{}, false
	}
	var l halLink
	if err := json.Unmarshal(raw, &l); err != nil {
		return halLink{}, false
	}
	return l, true
}

// links returns every link registered under rel, whether the document
// encodes it as a single object or a collection.
func (d halDocument) links(rel string) []halLink {
	raw, ok := d.Links[rel]
	if !ok {
		return nil
	}
	var many []halLink
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	var one halLink
	if err := json.Unmarshal(raw, &one); err == nil {
		return []halLink{one}
	}
	return nil
}

// loadBroker navigates the broker's HAL entry point — link relation
// "pb:latest-pact-versions", then the "pb:pacts" collection within it —
// fetching every referenced pact document and filtering by the
// consumer/provider name-pattern regex lists (spec 4.A).
func loadBroker(ctx context.Context, client *http.Client, src pact.Source, logger *zap.Logger) []Result {
	consumerPatterns, err := compilePatterns(src.ConsumerNamePatterns)
	if err != nil {
		return []Result{{Err: errorf("invalid consumer-name pattern: %s", err)}}
	}
	providerPatterns, err := compilePatterns(src.ProviderNamePatterns)
	if err != nil {
		return []Result{{Err: errorf("invalid provider-name pattern: %s", err)}}
	}

	root, err := fetchHAL(ctx, client, src.URL, src.Auth)
	if err != nil {
		return []Result{{Err: errorf("failed to navigate broker '%s' - %s", src.URL, err)}}
	}

	// HAL hrefs may be relative; resolve each against the URL of the
	// document that carried it.
	resolve := func(base, href string) string {
		b, err := url.Parse(base)
		if err != nil {
			return href
		}
		h, err := url.Parse(href)
		if err != nil {
			return href
		}
		return b.ResolveReference(h).String()
	}

	latest, ok := root.link("pb:latest-pact-versions")
	if !ok {
		return []Result{{Err: errorf("broker '%s' has no pb:latest-pact-versions link", src.URL)}}
	}
	latestURL := resolve(src.URL, latest.Href)
	versions, err := fetchHAL(ctx, client, latestURL, src.Auth)
	if err != nil {
		return []Result{{Err: errorf("failed to fetch pb:latest-pact-versions - %s", err)}}
	}

	pactLinks := versions.links("pb:pacts")
	results := make([]Result, 0, len(pactLinks))
	for _, link := range pactLinks {
		href := resolve(latestURL, link.Href)
		title := link.Title
		if title == "" {
			title = href
		}

		body, err := fetchURL(ctx, client, href, src.Auth)
		if err != nil {
			results = append(results, Result{Err: errorf("%s", err.Error()).WithPath(href)})
			continue
		}
		p, err := pact.Parse(body)
		if err != nil {
			results = append(results, Result{Err: errorf("error loading \"%s\" (%s) - %s", title, href, err)})
			continue
		}
		if !matchesAny(consumerPatterns, p.Consumer) || !matchesAny(providerPatterns, p.Provider) {
			logger.Debug("broker pact filtered by name pattern",
				zap.String("consumer", p.Consumer), zap.String("provider", p.Provider))
			continue
		}
		results = append(results, Result{Pact: p, Source: pact.BrokerSource(href, src.Auth, src.ConsumerNamePatterns, src.ProviderNamePatterns)})
	}
	return results
}

func fetchHAL(ctx context.Context, client *http.Client, url string, auth *pact.Auth) (halDocument, error) {
	body, err := fetchURL(ctx, client, url, auth)
	if err != nil {
		return halDocument{}, err
	}
	var doc halDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return halDocument{}, err
	}
	return doc, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// matchesAny reports whether name matches any pattern, or true if the
// pattern list is empty (no filter configured).
func matchesAny(patterns []*regexp.Regexp, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}
