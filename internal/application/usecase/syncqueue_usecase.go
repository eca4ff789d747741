// internal/application/usecase/syncqueue_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bloomstead/internal/domain/product"
	"bloomstead/internal/domain/syncqueue"
)

var (
	ErrSyncInvalidArgument = errors.New("sync_usecase: invalid argument")
)

// SyncReport summarizes one queue drain.
type SyncReport struct {
	Synced    int
	Remaining int
}

// SyncService drains the pending-sync queue against the remote ledger
// store. Entries that land are removed; failures stay queued for the next
// invocation. The trigger is external (boot or manual) — no scheduler.
type SyncService struct {
	remote        product.RemoteStore
	queue         syncqueue.Store
	remoteTimeout time.Duration
}

func NewSyncService(remote product.RemoteStore, queue syncqueue.Store) *SyncService {
	return &SyncService{
		remote:        remote,
		queue:         queue,
		remoteTimeout: DefaultRemoteTimeout,
	}
}

func (s *SyncService) WithRemoteTimeout(d time.Duration) *SyncService {
	if d > 0 {
		s.remoteTimeout = d
	}
	return s
}

// Process attempts every queued entry independently: one entry's failure
// never blocks the others. An empty or missing queue is a no-op. Calling
// Process again right after a fully successful drain does nothing.
func (s *SyncService) Process(ctx context.Context) (SyncReport, error) {
	if s == nil || s.queue == nil {
		return SyncReport{}, ErrSyncInvalidArgument
	}

	entries, err := s.queue.All(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("sync_usecase: read queue: %w", err)
	}
	if len(entries) == 0 {
		return SyncReport{}, nil
	}

	report := SyncReport{}
	for _, e := range entries {
		if err := s.push(ctx, e); err != nil {
			log.Printf("[sync] %s: still pending: %v", e.ProductID, err)
			report.Remaining++
			continue
		}
		if err := s.queue.Remove(ctx, e.ProductID); err != nil {
			// The write landed; a dangling entry just retries harmlessly
			// (idempotent overwrite) on the next drain.
			log.Printf("[sync] WARN: remove %s from queue failed: %v", e.ProductID, err)
		}
		report.Synced++
	}

	log.Printf("[sync] drained queue: synced=%d remaining=%d", report.Synced, report.Remaining)
	return report, nil
}

func (s *SyncService) push(ctx context.Context, e syncqueue.Entry) error {
	if s.remote == nil {
		return errors.New("sync_usecase: remote store not configured")
	}
	rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()
	return s.remote.Write(rctx, e.ProductID, e.Patch)
}
