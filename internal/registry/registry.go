// Package registry holds the current set of loaded pacts behind an
// atomic-snapshot discipline (spec 4.B): readers take a cheap reference
// via Snapshot, writers install a wholly new list via Publish. There are
// no per-interaction locks; interactions are immutable once loaded.
package registry

import (
	"sync/atomic"

	"github.com/pact-foundation/pact-stub-server/internal/source"
)

// Snapshot is an immutable view of the registry captured at a single
// instant. It is safe to read concurrently and to retain for the
// lifetime of one request even if the registry is republished
// meanwhile — a snapshot never mutates after it is handed out.
type Snapshot struct {
	Entries []source.Entry
}

// Registry is the handle-to-immutable-list primitive spec 9 calls for:
// a single atomic pointer swapped wholesale on reload, never mutated in
// place.
type Registry struct {
	current atomic.Pointer[Snapshot]
}

// New builds a Registry already holding the given entries.
func New(entries []source.Entry) *Registry {
	r := &Registry{}
	r.Publish(entries)
	return r
}

// Snapshot returns the current snapshot. The returned value is safe to
// use for the full duration of a request regardless of concurrent
// Publish calls.
func (r *Registry) Snapshot() *Snapshot {
	return r.current.Load()
}

// Publish installs a new snapshot atomically. It is total replacement,
// never a delta: the previous snapshot is discarded for future readers
// but remains valid for any reader still holding it.
func (r *Registry) Publish(entries []source.Entry) {
	r.current.Store(&Snapshot{Entries: entries})
}
