package pact

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthHeader_BasicWithPassword(t *testing.T) {
	pass := "secret"
	auth := BasicAuth("alice", &pass)
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:secret"))
	assert.Equal(t, want, auth.Header())
}

func TestAuthHeader_BasicWithoutPassword(t *testing.T) {
	auth := BasicAuth("alice", nil)
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice"))
	assert.Equal(t, want, auth.Header())
}

func TestAuthHeader_Bearer(t *testing.T) {
	auth := BearerAuth("tok-123")
	assert.Equal(t, "Bearer tok-123", auth.Header())
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "file(a.json)", FileSource("a.json").String())
	assert.Equal(t, "dir(pacts)", DirSource("pacts").String())
	assert.Equal(t, "url(http://x)", URLSource("http://x", nil).String())
	assert.Equal(t, "broker(http://b)", BrokerSource("http://b", nil, nil, nil).String())
}
