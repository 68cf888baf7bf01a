package stub

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

func TestWriteResponse_InjectsCORSAndContentTypeWhenAbsent(t *testing.T) {
	rec := httptest.NewRecorder()
	resp := pact.Response{
		Status:  201,
		Headers: http.Header{},
		Body:    pact.PresentBody([]byte(`{"ok":true}`), "application/json"),
	}

	writeResponse(rec, resp)

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, rec.Body.String())
}

func TestWriteResponse_DoesNotOverrideRecordedHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	headers := http.Header{}
	headers.Set("Access-Control-Allow-Origin", "https://example.com")
	headers.Set("Content-Type", "text/xml")
	resp := pact.Response{Status: 200, Headers: headers, Body: pact.PresentBody([]byte("<a/>"), "text/xml")}

	writeResponse(rec, resp)

	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
}

func TestWriteResponse_NoBodyNoContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	resp := pact.Response{Status: 204, Headers: http.Header{}, Body: pact.EmptyBody()}

	writeResponse(rec, resp)

	assert.Equal(t, 204, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestWriteNotFound_CORSConditional(t *testing.T) {
	rec := httptest.NewRecorder()
	writeNotFound(rec, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec2 := httptest.NewRecorder()
	writeNotFound(rec2, false)
	assert.Empty(t, rec2.Header().Get("Access-Control-Allow-Origin"))
}
