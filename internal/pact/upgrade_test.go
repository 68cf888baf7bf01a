package pact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Grounded on original_source/src/loading.rs upgrading v2-shaped
// documents (raw query string, providerState singular, flat matchingRules).
func TestParse_V2Shape(t *testing.T) {
	doc := []byte(`{
		"consumer": {"name": "consumer-a"},
		"provider": {"name": "provider-a"},
		"interactions": [{
			"description": "a request for a thing",
			"providerState": "a thing exists",
			"request": {
				"method": "get",
				"path": "/things",
				"query": "page=1&flag",
				"matchingRules": {
					"$.path": {"matchers": [{"match": "regex", "regex": "/things.*"}]}
				}
			},
			"response": {
				"status": 200,
				"headers": {"Content-Type": "application/json"},
				"body": {"id": 1}
			}
		}],
		"metadata": {"pactSpecification": {"version": "2.0.0"}}
	}`)

	p, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, "consumer-a", p.Consumer)
	assert.Equal(t, "provider-a", p.Provider)
	assert.Equal(t, "2.0.0", p.SpecVersion)
	require.Len(t, p.Interactions, 1)

	i := p.Interactions[0]
	require.Len(t, i.ProviderStates, 1)
	assert.Equal(t, "a thing exists", i.ProviderStates[0].Name)
	assert.Equal(t, "GET", i.Request.Method)
	assert.Equal(t, "/things", i.Request.Path)

	page := i.Request.Query["page"]
	require.Len(t, page, 1)
	require.NotNil(t, page[0])
	assert.Equal(t, "1", *page[0])

	flag := i.Request.Query["flag"]
	require.Len(t, flag, 1)
	assert.Nil(t, flag[0])

	rootPathRule, ok := i.MatchingRules.RootRule(CategoryPath)
	require.True(t, ok)
	require.Len(t, rootPathRule, 1)
	assert.Equal(t, RuleRegex, rootPathRule[0].Type)

	assert.True(t, i.Response.Body.IsPresent())
	assert.Equal(t, "application/json", i.Response.Body.ContentType)
}

// Grounded on v3/v4 categorized matchingRules and array-shaped query.
func TestParse_V4Shape(t *testing.T) {
	doc := []byte(`{
		"consumer": {"name": "consumer-b"},
		"provider": {"name": "provider-b"},
		"interactions": [{
			"description": "a request with repeated query params",
			"providerStates": [{"name": "things exist", "params": {"count": 2}}],
			"type": "Synchronous/HTTP",
			"request": {
				"method": "GET",
				"path": "/things",
				"query": {"ids": ["1", "2"]},
				"matchingRules": {
					"query": {"ids[*]": {"matchers": [{"match": "type"}]}}
				}
			},
			"response": {
				"status": 200,
				"body": "plain text"
			}
		}],
		"metadata": {"pactSpecification": {"version": "4.0"}}
	}`)

	p, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, p.Interactions, 1)

	i := p.Interactions[0]
	assert.True(t, i.IsHTTPSync())
	require.Len(t, i.ProviderStates, 1)
	assert.Equal(t, "things exist", i.ProviderStates[0].Name)
	assert.EqualValues(t, 2, i.ProviderStates[0].Params["count"])

	ids := i.Request.Query["ids"]
	require.Len(t, ids, 2)
	assert.Equal(t, "1", *ids[0])
	assert.Equal(t, "2", *ids[1])

	selectors := i.MatchingRules.ForCategory(CategoryQuery)
	require.Contains(t, selectors, "ids[*]")
	assert.Equal(t, RuleTypeMatch, selectors["ids[*]"][0].Type)

	assert.Equal(t, "plain text", string(i.Response.Body.Content))
}

func TestParse_RejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)
}
