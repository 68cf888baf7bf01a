package source

import (
	"context"
	"net/http"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// DefaultExtension is the file-extension filter applied to Dir sources
// when the CLI does not override it.
const DefaultExtension = "json"

// Entry pairs a loaded pact with the source it came from, for later
// attribution in the registry (spec 3 "Registry entry").
type Entry struct {
	Pact   pact.Pact
	Source pact.Source
}

// Load acquires every source concurrently (bounded by the number of
// sources; each source's own internal work — a directory walk, a single
// GET — stays sequential) and returns one ordered result list per spec
// 4.A: output order follows input source order, and within a Dir,
// documents appear in filesystem traversal order.
//
// If any result is an error, the aggregate error is non-nil and the
// caller should treat the whole load as failed (spec 4.A, 7): one bad
// file does not stop others from being attempted, but the overall
// load is reported as failed.
func Load(ctx context.Context, logger *zap.Logger, sources []pact.Source, insecureTLS bool, ext string) ([]Entry, error) {
	if ext == "" {
		ext = DefaultExtension
	}

	perSource := make([][]Result, len(sources))
	client := newHTTPClient(insecureTLS, logger)

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			perSource[i] = acquire(gctx, logger, client, src, ext)
			return nil
		})
	}
	// Acquisition of one source never aborts another (spec 4.A); the
	// errgroup here only bounds concurrency and propagates ctx
	// cancellation, so g.Wait()'s error is always nil by construction.
	_ = g.Wait()

	var entries []Entry
	var aggregate error
	for _, results := range perSource {
		for _, r := range results {
			if r.Err != nil {
				aggregate = multierr.Append(aggregate, r.Err)
				logger.Warn("failed to load pact", zap.Error(r.Err))
				continue
			}
			entries = append(entries, Entry{Pact: r.Pact, Source: r.Source})
		}
	}
	return entries, aggregate
}

func acquire(ctx context.Context, logger *zap.Logger, client *http.Client, src pact.Source, ext string) []Result {
	switch src.Kind {
	case pact.SourceFile:
		return []Result{loadFile(src.Path)}
	case pact.SourceDir:
		return loadDir(logger, src.Path, ext)
	case pact.SourceURL:
		return []Result{loadURL(ctx, client, src.URL, src.Auth)}
	case pact.SourceBroker:
		return loadBroker(ctx, client, src, logger)
	default:
		return []Result{{Err: errorf("unknown pact source kind")}}
	}
}
