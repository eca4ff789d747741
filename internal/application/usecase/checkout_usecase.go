// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	orderdom "bloomstead/internal/domain/order"

	"bloomstead/internal/application/notify"
)

var (
	ErrCheckoutInvalidArgument = errors.New("checkout_usecase: invalid argument")
	ErrOrderNotPersisted       = errors.New("checkout_usecase: order could not be persisted")
)

// OrderMailer is the outbound port for order notification emails.
// Implementations are fire-and-forget from the orchestrator's point of
// view: a send failure is logged, never rolled back on.
type OrderMailer interface {
	SendOrderConfirmation(ctx context.Context, o orderdom.Order) error
	SendInvoice(ctx context.Context, o orderdom.Order) error
	SendGiftCertificate(ctx context.Context, recipient, code string, amount float64) error
}

// CheckoutResult carries the durable order plus any soft warnings
// accumulated along the best-effort steps.
type CheckoutResult struct {
	Order    orderdom.Order
	Warnings []string
}

// CheckoutService runs the linear, best-effort checkout state machine:
// validate (hard gate) -> persist order (remote, local fallback) ->
// confirmation email -> per-item inventory decrement -> clear cart.
// Steps 2-5 have independent failure domains; there is no rollback and no
// distributed transaction, by design.
type CheckoutService struct {
	carts     *CartService
	orders    orderdom.RemoteStore
	fallback  orderdom.FallbackStore
	inventory *InventoryService
	mailer    OrderMailer
	notifier  notify.Notifier
	clock     Clock

	remoteTimeout time.Duration
}

func NewCheckoutService(
	carts *CartService,
	orders orderdom.RemoteStore,
	fallback orderdom.FallbackStore,
	inventory *InventoryService,
	mailer OrderMailer,
	notifier notify.Notifier,
) *CheckoutService {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &CheckoutService{
		carts:         carts,
		orders:        orders,
		fallback:      fallback,
		inventory:     inventory,
		mailer:        mailer,
		notifier:      notifier,
		clock:         systemClock{},
		remoteTimeout: DefaultRemoteTimeout,
	}
}

func (s *CheckoutService) WithClock(c Clock) *CheckoutService {
	if c != nil {
		s.clock = c
	}
	return s
}

// SubmitOrder captures the current cart as an order.
//
// Only validation is a hard gate (no side effects before it passes). After
// the order exists, every remaining step is attempted regardless of earlier
// soft failures, and the cart is cleared unconditionally at the end: the
// order is the durable record from that point on.
func (s *CheckoutService) SubmitOrder(ctx context.Context, customer orderdom.Customer) (CheckoutResult, error) {
	if s == nil || s.carts == nil {
		return CheckoutResult{}, ErrCheckoutInvalidArgument
	}

	// 1) Validate — field-level errors, fail fast, no side effects.
	if fe := orderdom.ValidateCustomer(customer); fe != nil {
		return CheckoutResult{}, fe
	}

	items := s.carts.Items()
	o, err := orderdom.New(customer, items, s.clock.Now())
	if err != nil {
		return CheckoutResult{}, err
	}

	result := CheckoutResult{}

	// 2) Persist the order: remote first, local fallback so it is never lost.
	remoteSaved, err := s.persistOrder(ctx, &o, &result)
	if err != nil {
		return CheckoutResult{}, err
	}

	// 3) Confirmation email — idempotent via the EmailSent flag, failure is
	// logged and does not touch the order.
	s.sendConfirmation(ctx, &o, remoteSaved, &result)

	// 4) Inventory decrement per line item, sequentially in item order.
	s.decrementInventory(ctx, o, &result)

	// 5) Clear the cart unconditionally.
	if err := s.carts.ClearCart(ctx); err != nil {
		log.Printf("[checkout] WARN: cart clear failed after order %s: %v", o.ID, err)
	}

	result.Order = o
	notify.Emit(s.notifier, fmt.Sprintf("Order %s placed — thank you!", o.ID), notify.Success)
	return result, nil
}

func (s *CheckoutService) persistOrder(ctx context.Context, o *orderdom.Order, result *CheckoutResult) (bool, error) {
	if s.orders != nil {
		rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
		err := s.orders.Create(rctx, *o)
		cancel()
		if err == nil {
			return true, nil
		}
		log.Printf("[checkout] remote order save failed for %s: %v (using local fallback)", o.ID, err)
	}

	if s.fallback == nil {
		return false, ErrOrderNotPersisted
	}
	if err := s.fallback.Save(ctx, *o); err != nil {
		return false, fmt.Errorf("checkout_usecase: fallback save %s: %w", o.ID, err)
	}
	result.Warnings = append(result.Warnings, "order saved locally; remote sync pending")
	return false, nil
}

func (s *CheckoutService) sendConfirmation(ctx context.Context, o *orderdom.Order, remoteSaved bool, result *CheckoutResult) {
	if s.mailer == nil || o.EmailSent {
		return
	}
	if err := s.mailer.SendOrderConfirmation(ctx, *o); err != nil {
		log.Printf("[checkout] confirmation email failed for %s: %v", o.ID, err)
		result.Warnings = append(result.Warnings, "confirmation email could not be sent")
		return
	}

	o.EmailSent = true
	if remoteSaved && s.orders != nil {
		sent := true
		if err := s.orders.SetEmailFlags(ctx, o.ID, &sent, nil); err != nil {
			log.Printf("[checkout] WARN: emailSent flag update failed for %s: %v", o.ID, err)
		}
	}
}

func (s *CheckoutService) decrementInventory(ctx context.Context, o orderdom.Order, result *CheckoutResult) {
	if s.inventory == nil {
		return
	}
	pending := false
	for _, it := range o.Items {
		res, err := s.inventory.Decrement(ctx, it.ProductID, it.Quantity)
		if err != nil {
			log.Printf("[checkout] inventory decrement failed for %s: %v", it.ProductID, err)
			pending = true
			continue
		}
		if !res.Synced {
			pending = true
		}
	}
	if pending {
		result.Warnings = append(result.Warnings, "order placed, inventory sync pending")
		notify.Emit(s.notifier, "Order placed — inventory sync pending", notify.Warning)
	}
}
