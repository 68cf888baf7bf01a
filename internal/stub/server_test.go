package stub

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pact-foundation/pact-stub-server/internal/match"
	"github.com/pact-foundation/pact-stub-server/internal/pact"
	"github.com/pact-foundation/pact-stub-server/internal/registry"
	"github.com/pact-foundation/pact-stub-server/internal/source"
)

func buildServer(t *testing.T, autoCORS bool) *Server {
	t.Helper()
	interaction := pact.Interaction{
		Request:  pact.Request{Method: "GET", Path: "/hello", Query: pact.Query{}, Headers: http.Header{}, Body: pact.EmptyBody()},
		Response: pact.Response{Status: 200, Headers: http.Header{"Content-Type": {"text/plain"}}, Body: pact.PresentBody([]byte("hi"), "text/plain")},
		Kind:     pact.InteractionHTTP,
	}
	reg := registry.New([]source.Entry{{Pact: pact.Pact{Interactions: []pact.Interaction{interaction}}}})
	engine := match.New(match.Config{AutoCORS: autoCORS}, zap.NewNop())
	return New(engine, reg, zap.NewNop(), autoCORS)
}

func TestServeHTTP_MatchedInteraction(t *testing.T) {
	srv := buildServer(t, false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/hello", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "hi", rec.Body.String())
}

func TestServeHTTP_NoMatchReturns404(t *testing.T) {
	srv := buildServer(t, false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/nope", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeHTTP_404HonorsAutoCORS(t *testing.T) {
	srv := buildServer(t, true)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/nope", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
