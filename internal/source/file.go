package source

import (
	"os"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// Result is one discovered document: either a successfully parsed pact
// (paired with the source it came from, for later attribution in the
// registry) or a load error.
type Result struct {
	Pact   pact.Pact
	Source pact.Source
	Err    error
}

func loadFile(path string) Result {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{Err: errorf("failed to load pact file: %s", err).WithPath(path)}
	}
	p, err := pact.Parse(raw)
	if err != nil {
		return Result{Err: errorf("failed to parse pact file: %s", err).WithPath(path)}
	}
	return Result{Pact: p, Source: pact.FileSource(path)}
}
