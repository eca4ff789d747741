// internal/domain/syncqueue/entity_test.go
package syncqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloomstead/internal/domain/product"
)

func stockPatch(n int) product.LedgerPatch {
	return product.LedgerPatch{CurrentStock: &n}
}

func TestMergeReplacesSameProduct(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	entries := Merge(nil, Entry{ProductID: "p1", Patch: stockPatch(4), QueuedAt: t0})
	entries = Merge(entries, Entry{ProductID: "p2", Patch: stockPatch(1), QueuedAt: t0})
	entries = Merge(entries, Entry{ProductID: "p1", Patch: stockPatch(9), QueuedAt: t0.Add(time.Minute)})

	require.Len(t, entries, 2)
	assert.Equal(t, "p1", entries[0].ProductID)
	assert.Equal(t, 9, *entries[0].Patch.CurrentStock) // latest write wins
	assert.Equal(t, "p2", entries[1].ProductID)
}

func TestMergeIgnoresEmptyProductID(t *testing.T) {
	entries := Merge(nil, Entry{ProductID: "  "})
	assert.Empty(t, entries)
}

func TestMergeTrimsProductID(t *testing.T) {
	entries := Merge(nil, Entry{ProductID: " p1 ", Patch: stockPatch(2)})
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0].ProductID)
}
