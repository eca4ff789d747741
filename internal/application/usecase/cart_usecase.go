// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	cartdom "bloomstead/internal/domain/cart"
	"bloomstead/internal/domain/product"

	"bloomstead/internal/application/notify"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CartService coordinates cart mutations: it enforces the stock ceiling at
// every mutation, emits user-facing notifications, and write-through
// persists to the cart store (no batching).
//
// Stock is resolved against the local ledger mirror when the product is
// mirrored, falling back to the ledger embedded in the product at add time.
// The check is best-effort, not transactional against concurrent shoppers.
type CartService struct {
	mu       sync.Mutex
	cart     cartdom.Cart
	store    cartdom.Store
	mirror   product.MirrorStore
	notifier notify.Notifier
}

func NewCartService(store cartdom.Store, mirror product.MirrorStore, notifier notify.Notifier) *CartService {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &CartService{
		store:    store,
		mirror:   mirror,
		notifier: notifier,
	}
}

// Load restores the persisted cart (page-refresh / restart round-trip).
// A missing cart is an empty cart.
func (s *CartService) Load(ctx context.Context) error {
	if s == nil || s.store == nil {
		return ErrCartInvalidArgument
	}
	items, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("cart_usecase: load: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cartdom.Cart{Items: items}
	return nil
}

// AddToCart adds qty units of p, clamped to the available stock minus what
// is already in the cart. qty <= 0 is treated as 1. Returns true iff any
// quantity was actually added; exhausted stock returns false with an
// out-of-stock notification, a clamped add notifies partial fulfillment.
func (s *CartService) AddToCart(ctx context.Context, p product.Product, qty int) (bool, error) {
	if s == nil {
		return false, ErrCartInvalidArgument
	}
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return false, ErrCartInvalidArgument
	}
	if qty <= 0 {
		qty = 1
	}

	stock, known := s.availableStock(ctx, id)
	if !known {
		stock = p.Inventory.CurrentStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if stock <= 0 {
		notify.Emit(s.notifier, fmt.Sprintf("%s is out of stock", displayName(p.Name, id)), notify.Error)
		return false, nil
	}

	out := s.cart.Add(p, qty, stock)
	if out.Added == 0 {
		notify.Emit(s.notifier, fmt.Sprintf("No more %s available", displayName(p.Name, id)), notify.Error)
		return false, nil
	}
	if out.Clamped {
		notify.Emit(s.notifier,
			fmt.Sprintf("Only %d of %s added (limited stock)", out.Added, displayName(p.Name, id)),
			notify.Warning)
	}

	if err := s.persistLocked(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// UpdateQuantity sets the quantity for productID, clamped to [0, stock].
// A target <= 0 removes the line item. Emits a notification when the
// requested value was reduced by the stock ceiling.
func (s *CartService) UpdateQuantity(ctx context.Context, productID string, qty int) error {
	if s == nil {
		return ErrCartInvalidArgument
	}
	id := strings.TrimSpace(productID)
	if id == "" {
		return ErrCartInvalidArgument
	}

	stock, known := s.availableStock(ctx, id)
	if !known {
		// No ledger known for this product: the request is the ceiling.
		stock = qty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.cart.SetQuantity(id, qty, stock)
	if out.Clamped {
		notify.Emit(s.notifier,
			fmt.Sprintf("Quantity reduced to %d (limited stock)", out.Quantity),
			notify.Warning)
	}
	return s.persistLocked(ctx)
}

// RemoveFromCart deletes the line item for productID.
func (s *CartService) RemoveFromCart(ctx context.Context, productID string) error {
	if s == nil {
		return ErrCartInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(strings.TrimSpace(productID))
	return s.persistLocked(ctx)
}

// ClearCart empties the cart and its persisted copy.
func (s *CartService) ClearCart(ctx context.Context) error {
	if s == nil {
		return ErrCartInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	if s.store == nil {
		return nil
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("cart_usecase: clear: %w", err)
	}
	return nil
}

// GetTotal folds price * quantity over current line items; malformed values
// contribute zero, never NaN.
func (s *CartService) GetTotal() float64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// GetItemCount is the total unit count across line items.
func (s *CartService) GetItemCount() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// Items returns a defensive copy of the current line items.
func (s *CartService) Items() []cartdom.LineItem {
	if s == nil {
		return []cartdom.LineItem{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// persistLocked writes through to the store; callers hold s.mu.
func (s *CartService) persistLocked(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, s.cart.Snapshot()); err != nil {
		return fmt.Errorf("cart_usecase: persist: %w", err)
	}
	return nil
}

// availableStock resolves the freshest known stock for a product.
func (s *CartService) availableStock(ctx context.Context, productID string) (int, bool) {
	if s.mirror == nil {
		return 0, false
	}
	e, ok, err := s.mirror.Get(ctx, productID)
	if err != nil {
		log.Printf("[cart] WARN: mirror read failed for %s: %v", productID, err)
		return 0, false
	}
	if !ok {
		return 0, false
	}
	return e.CurrentStock, true
}

func displayName(name, id string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return "product " + id
}
