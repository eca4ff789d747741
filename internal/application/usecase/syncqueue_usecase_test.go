// internal/application/usecase/syncqueue_usecase_test.go
package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloomstead/internal/domain/product"
	"bloomstead/internal/domain/syncqueue"
)

func queuedEntry(id string, stock int) syncqueue.Entry {
	return syncqueue.Entry{
		ProductID: id,
		Patch:     product.LedgerPatch{CurrentStock: &stock},
		QueuedAt:  time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestProcessDrainsQueue(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemoteLedger()
	queue := &fakeQueue{}
	require.NoError(t, queue.Enqueue(ctx, queuedEntry("p1", 4)))
	require.NoError(t, queue.Enqueue(ctx, queuedEntry("p2", 9)))

	report, err := NewSyncService(remote, queue).Process(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncReport{Synced: 2, Remaining: 0}, report)
	assert.Empty(t, queue.entries)
	assert.Equal(t, 4, remote.entries["p1"].CurrentStock)
	assert.Equal(t, 9, remote.entries["p2"].CurrentStock)
}

func TestProcessKeepsFailedEntries(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemoteLedger()
	remote.down = true
	queue := &fakeQueue{}
	require.NoError(t, queue.Enqueue(ctx, queuedEntry("p1", 4)))

	report, err := NewSyncService(remote, queue).Process(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncReport{Synced: 0, Remaining: 1}, report)
	assert.Len(t, queue.entries, 1)
}

func TestProcessIsIdempotentOnEmptyQueue(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemoteLedger()
	queue := &fakeQueue{}
	require.NoError(t, queue.Enqueue(ctx, queuedEntry("p1", 4)))
	svc := NewSyncService(remote, queue)

	_, err := svc.Process(ctx)
	require.NoError(t, err)
	firstWrites := remote.writes

	// Second drain right after a full one must do nothing.
	report, err := svc.Process(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncReport{}, report)
	assert.Equal(t, firstWrites, remote.writes)
}

func TestProcessRecoversAfterOutage(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemoteLedger()
	remote.down = true
	queue := &fakeQueue{}
	require.NoError(t, queue.Enqueue(ctx, queuedEntry("p1", 4)))
	svc := NewSyncService(remote, queue)

	_, err := svc.Process(ctx)
	require.NoError(t, err)

	remote.down = false
	report, err := svc.Process(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 4, remote.entries["p1"].CurrentStock)
}

func TestProcessRequiresQueue(t *testing.T) {
	_, err := NewSyncService(newFakeRemoteLedger(), nil).Process(context.Background())
	assert.ErrorIs(t, err, ErrSyncInvalidArgument)
}
