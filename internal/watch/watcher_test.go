package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// TestMain verifies Stop() leaves no watcher goroutine running, since the
// background event/ticker loop is the one long-lived goroutine this
// package starts.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher_ReloadsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pact.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	reloaded := make(chan struct{}, 8)
	w, err := New(zap.NewNop(), []pact.Source{pact.DirSource(dir)}, func() { reloaded <- struct{}{} })
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`{"changed":true}`), 0o600))

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reload after the debounce window elapsed")
	}

	assert.Equal(t, 1, w.Stats().ReloadCount)
}

func TestWatcher_IgnoresURLAndBrokerSources(t *testing.T) {
	w, err := New(zap.NewNop(), []pact.Source{pact.URLSource("https://example.com/pact.json", nil)}, func() {})
	require.NoError(t, err)
	defer w.Stop()
	assert.Empty(t, watchPaths([]pact.Source{pact.URLSource("https://example.com/pact.json", nil)}))
}
