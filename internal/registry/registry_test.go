package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
	"github.com/pact-foundation/pact-stub-server/internal/source"
)

func TestRegistry_SnapshotIsStableAcrossPublish(t *testing.T) {
	reg := New([]source.Entry{{Pact: pact.Pact{Consumer: "a"}}})

	snap1 := reg.Snapshot()
	assert.Len(t, snap1.Entries, 1)
	assert.Equal(t, "a", snap1.Entries[0].Pact.Consumer)

	reg.Publish([]source.Entry{{Pact: pact.Pact{Consumer: "b"}}, {Pact: pact.Pact{Consumer: "c"}}})

	// The previously captured snapshot is unaffected by the republish.
	assert.Len(t, snap1.Entries, 1)
	assert.Equal(t, "a", snap1.Entries[0].Pact.Consumer)

	snap2 := reg.Snapshot()
	assert.Len(t, snap2.Entries, 2)
	assert.Equal(t, "b", snap2.Entries[0].Pact.Consumer)
}

func TestRegistry_EmptyInitialSnapshot(t *testing.T) {
	reg := New(nil)
	assert.Empty(t, reg.Snapshot().Entries)
}
