package match

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

func TestRender_NoGeneratorsReturnsResponseUnchanged(t *testing.T) {
	resp := pact.Response{Status: 200, Headers: http.Header{}, Body: pact.PresentBody([]byte(`{"a":1}`), "application/json")}
	out := render(resp, nil)
	assert.Equal(t, resp, out)
}

func TestRender_UUIDBodyFieldIsRewritten(t *testing.T) {
	resp := pact.Response{
		Status:  200,
		Headers: http.Header{},
		Body:    pact.PresentBody([]byte(`{"id":"placeholder","name":"bob"}`), "application/json"),
	}
	gens := pact.GeneratorCategories{
		pact.GenCategoryBody: {"$.id": {Type: pact.GeneratorUUID}},
	}

	out := render(resp, gens)
	require.NotEqual(t, `{"id":"placeholder","name":"bob"}`, string(out.Body.Content))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Body.Content, &doc))
	_, err := uuid.Parse(doc["id"].(string))
	assert.NoError(t, err)
	assert.Equal(t, "bob", doc["name"])
}

func TestRender_StatusGenerator(t *testing.T) {
	resp := pact.Response{Status: 200, Headers: http.Header{}, Body: pact.EmptyBody()}
	gens := pact.GeneratorCategories{
		pact.GenCategoryStatus: {"$": {Type: pact.GeneratorRandomInt, Min: 200, Max: 204}},
	}
	out := render(resp, gens)
	assert.Equal(t, 202, out.Status)
}

func TestRender_HeaderGeneratorDateTime(t *testing.T) {
	resp := pact.Response{Status: 200, Headers: http.Header{}, Body: pact.EmptyBody()}
	gens := pact.GeneratorCategories{
		pact.GenCategoryHeader: {"X-Generated-At": {Type: pact.GeneratorDateTime}},
	}
	out := render(resp, gens)
	assert.NotEmpty(t, out.Headers.Get("X-Generated-At"))
}

func TestRandomIntGenerator_IsDeterministic(t *testing.T) {
	g := pact.Generator{Type: pact.GeneratorRandomInt, Min: 1, Max: 9}
	assert.Equal(t, generateInt(g, 0), generateInt(g, 0))
	assert.Equal(t, int64(5), generateInt(g, 0))
}
