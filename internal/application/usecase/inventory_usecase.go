// internal/application/usecase/inventory_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bloomstead/internal/domain/product"
	"bloomstead/internal/domain/syncqueue"

	"bloomstead/internal/application/notify"
)

var (
	ErrInventoryInvalidArgument = errors.New("inventory_usecase: invalid argument")

	// ErrNoData is the terminal first-load state: no reachable remote and no
	// cached catalog to fall back to.
	ErrNoData = errors.New("inventory_usecase: no data available")
)

// DefaultRemoteTimeout bounds every remote ledger call; a timeout follows
// the same fallback path as a network error.
const DefaultRemoteTimeout = 5 * time.Second

// SyncResult is a soft-success carrier: the local state is already correct
// when it is returned, Synced reports whether the remote write also landed.
type SyncResult struct {
	Synced  bool
	Warning string
}

// InventoryService is the inventory reconciler. Updates land on the local
// ledger mirror first (a remote outage never blocks user-visible state),
// then on the remote store; remote failures are queued for retry with
// latest-write-wins replacement per product.
type InventoryService struct {
	remote        product.RemoteStore
	mirror        product.MirrorStore
	queue         syncqueue.Store
	notifier      notify.Notifier
	clock         Clock
	remoteTimeout time.Duration
}

func NewInventoryService(
	remote product.RemoteStore,
	mirror product.MirrorStore,
	queue syncqueue.Store,
	notifier notify.Notifier,
) *InventoryService {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &InventoryService{
		remote:        remote,
		mirror:        mirror,
		queue:         queue,
		notifier:      notifier,
		clock:         systemClock{},
		remoteTimeout: DefaultRemoteTimeout,
	}
}

// WithClock / WithRemoteTimeout are test hooks.
func (s *InventoryService) WithClock(c Clock) *InventoryService {
	if c != nil {
		s.clock = c
	}
	return s
}

func (s *InventoryService) WithRemoteTimeout(d time.Duration) *InventoryService {
	if d > 0 {
		s.remoteTimeout = d
	}
	return s
}

// UpdateInventory applies a partial ledger update for one product:
// mirror first (optimistic), then remote under a bounded timeout. A remote
// failure enqueues the patch (replacing any queued entry for the product)
// and returns soft-success with a warning — the caller's flow must not
// abort, only remote durability is delayed.
func (s *InventoryService) UpdateInventory(ctx context.Context, productID string, patch product.LedgerPatch) (SyncResult, error) {
	if s == nil {
		return SyncResult{}, ErrInventoryInvalidArgument
	}
	id := strings.TrimSpace(productID)
	if id == "" {
		return SyncResult{}, ErrInventoryInvalidArgument
	}

	// 1) Local mirror first. Base entry is the mirrored one; an unmirrored
	// product starts from a zero entry. Apply clamps the stock floor and
	// recomputes the derived status.
	base := product.LedgerEntry{}
	if s.mirror != nil {
		if e, ok, err := s.mirror.Get(ctx, id); err != nil {
			log.Printf("[inventory] WARN: mirror read failed for %s: %v", id, err)
		} else if ok {
			base = e
		}
	}
	updated := patch.Apply(base)
	if s.mirror != nil {
		if err := s.mirror.Put(ctx, id, updated); err != nil {
			// Local persistence failure is logged, never blocks the flow.
			log.Printf("[inventory] WARN: mirror write failed for %s: %v", id, err)
		}
	}

	// 2) Remote write under a bounded timeout.
	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
		err := s.remote.Write(rctx, id, patch)
		cancel()
		if err == nil {
			return SyncResult{Synced: true}, nil
		}
		log.Printf("[inventory] remote write failed for %s: %v (queueing for retry)", id, err)
	}

	// 3) Queue for retry, latest write wins per product.
	if s.queue != nil {
		e := syncqueue.Entry{ProductID: id, Patch: patch, QueuedAt: s.clock.Now().UTC()}
		if err := s.queue.Enqueue(ctx, e); err != nil {
			log.Printf("[inventory] WARN: enqueue failed for %s: %v", id, err)
		}
	}

	return SyncResult{Synced: false, Warning: "inventory sync pending"}, nil
}

// Decrement reduces stock by qty, floored at zero even when concurrent
// decrements overshoot.
func (s *InventoryService) Decrement(ctx context.Context, productID string, qty int) (SyncResult, error) {
	return s.adjust(ctx, productID, -qty)
}

// Restock adds qty back (admin cancellation reconciliation).
func (s *InventoryService) Restock(ctx context.Context, productID string, qty int) (SyncResult, error) {
	return s.adjust(ctx, productID, qty)
}

func (s *InventoryService) adjust(ctx context.Context, productID string, delta int) (SyncResult, error) {
	if s == nil {
		return SyncResult{}, ErrInventoryInvalidArgument
	}
	id := strings.TrimSpace(productID)
	if id == "" || delta == 0 {
		return SyncResult{}, ErrInventoryInvalidArgument
	}

	current, ok := 0, false
	if s.mirror != nil {
		if e, found, err := s.mirror.Get(ctx, id); err == nil && found {
			current, ok = e.CurrentStock, true
		}
	}
	if !ok && s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
		e, err := s.remote.Read(rctx, id)
		cancel()
		if err == nil {
			current, ok = e.CurrentStock, true
		} else {
			log.Printf("[inventory] WARN: no known stock for %s (remote read: %v), assuming 0", id, err)
		}
	}

	newStock := current + delta
	if newStock < 0 {
		newStock = 0
	}
	return s.UpdateInventory(ctx, id, product.LedgerPatch{CurrentStock: &newStock})
}

// LoadCatalog fetches the full catalog from the remote store under a
// bounded timeout, refreshing the mirror on success. On failure it falls
// back to the mirrored snapshot; with no cache and no reachable remote it
// returns ErrNoData (terminal first-load state).
func (s *InventoryService) LoadCatalog(ctx context.Context) ([]product.Product, error) {
	if s == nil {
		return nil, ErrInventoryInvalidArgument
	}

	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
		products, err := s.remote.ReadAll(rctx)
		cancel()
		if err == nil {
			if s.mirror != nil {
				if merr := s.mirror.PutAll(ctx, products); merr != nil {
					log.Printf("[inventory] WARN: mirror refresh failed: %v", merr)
				}
			}
			return products, nil
		}
		log.Printf("[inventory] catalog fetch failed: %v (falling back to cache)", err)
	}

	if s.mirror != nil {
		cached, err := s.mirror.All(ctx)
		if err != nil {
			log.Printf("[inventory] WARN: mirror read failed: %v", err)
		} else if len(cached) > 0 {
			notify.Emit(s.notifier, "Showing cached catalog; live stock may differ", notify.Warning)
			return cached, nil
		}
	}

	return nil, ErrNoData
}

// Ledger returns the freshest known entry for one product (mirror first,
// then remote), handy for storefront detail views.
func (s *InventoryService) Ledger(ctx context.Context, productID string) (product.LedgerEntry, error) {
	if s == nil {
		return product.LedgerEntry{}, ErrInventoryInvalidArgument
	}
	id := strings.TrimSpace(productID)
	if id == "" {
		return product.LedgerEntry{}, ErrInventoryInvalidArgument
	}

	if s.mirror != nil {
		if e, ok, err := s.mirror.Get(ctx, id); err == nil && ok {
			return e, nil
		}
	}
	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
		defer cancel()
		e, err := s.remote.Read(rctx, id)
		if err != nil {
			return product.LedgerEntry{}, fmt.Errorf("inventory_usecase: ledger %s: %w", id, err)
		}
		return e, nil
	}
	return product.LedgerEntry{}, product.ErrNotFound
}
