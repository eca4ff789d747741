// internal/application/usecase/checkout_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdom "bloomstead/internal/domain/order"
)

type checkoutFixture struct {
	carts     *CartService
	cartStore *fakeCartStore
	mirror    *fakeMirror
	ledger    *fakeRemoteLedger
	queue     *fakeQueue
	orders    *fakeOrderStore
	fallback  *fakeFallbackStore
	mailer    *fakeMailer
	notifier  *recordingNotifier
	svc       *CheckoutService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		cartStore: &fakeCartStore{},
		mirror:    newFakeMirror(),
		ledger:    newFakeRemoteLedger(),
		queue:     &fakeQueue{},
		orders:    newFakeOrderStore(),
		fallback:  newFakeFallbackStore(),
		mailer:    &fakeMailer{},
		notifier:  &recordingNotifier{},
	}
	f.carts = NewCartService(f.cartStore, f.mirror, nil)
	inventory := NewInventoryService(f.ledger, f.mirror, f.queue, nil)
	f.svc = NewCheckoutService(f.carts, f.orders, f.fallback, inventory, f.mailer, f.notifier).
		WithClock(fixedClock{t: time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)})
	return f
}

func (f *checkoutFixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	tulips := mirroredProduct(f.mirror, "1", "Tulip Bulbs", "6.00", 5)
	dahlias := mirroredProduct(f.mirror, "2", "Dahlia Tubers", "10.00", 3)
	f.ledger.entries["1"] = f.mirror.entries["1"]
	f.ledger.entries["2"] = f.mirror.entries["2"]

	added, err := f.carts.AddToCart(ctx, tulips, 2)
	require.NoError(t, err)
	require.True(t, added)
	added, err = f.carts.AddToCart(ctx, dahlias, 1)
	require.NoError(t, err)
	require.True(t, added)
}

func TestSubmitOrderHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t)

	res, err := f.svc.SubmitOrder(ctx, validCheckoutCustomer())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	o := res.Order
	assert.Equal(t, orderdom.StatusPending, o.Status)
	assert.InDelta(t, 22.00, o.Total, 0.001)
	assert.True(t, o.EmailSent)

	// Order persisted remotely with the emailSent flag set.
	stored, err := f.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailSent)

	// Inventory decremented per item, and the cart is gone.
	assert.Equal(t, 3, f.mirror.entries["1"].CurrentStock)
	assert.Equal(t, 2, f.mirror.entries["2"].CurrentStock)
	assert.Equal(t, 0, f.carts.GetItemCount())
	assert.Empty(t, f.cartStore.items)
	assert.Equal(t, []string{o.ID}, f.mailer.confirmations)
}

func TestSubmitOrderValidationHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t)

	bad := validCheckoutCustomer()
	bad.Email = "nope"

	_, err := f.svc.SubmitOrder(ctx, bad)
	var fe orderdom.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "email")

	// Nothing happened: cart intact, no order, no mail, stock untouched.
	assert.Equal(t, 3, f.carts.GetItemCount())
	assert.Zero(t, f.orders.creates)
	assert.Empty(t, f.mailer.confirmations)
	assert.Equal(t, 5, f.mirror.entries["1"].CurrentStock)
}

func TestSubmitOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.SubmitOrder(context.Background(), validCheckoutCustomer())
	assert.ErrorIs(t, err, orderdom.ErrEmptyCart)
}

func TestSubmitOrderFallsBackWhenRemoteDown(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t)
	f.orders.down = true

	res, err := f.svc.SubmitOrder(ctx, validCheckoutCustomer())
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "order saved locally; remote sync pending")

	saved, err := f.fallback.List(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, res.Order.ID, saved[0].ID)
	// Confirmation still goes out from the local copy.
	assert.Equal(t, []string{res.Order.ID}, f.mailer.confirmations)
}

func TestSubmitOrderFailsWhenNothingCanPersist(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t)
	f.orders.down = true
	f.fallback.down = true

	_, err := f.svc.SubmitOrder(ctx, validCheckoutCustomer())
	require.Error(t, err)
	assert.Empty(t, f.mailer.confirmations)
}

func TestSubmitOrderEmailFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t)
	f.mailer.failConfirm = errors.New("smtp down")

	res, err := f.svc.SubmitOrder(ctx, validCheckoutCustomer())
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "confirmation email could not be sent")
	assert.False(t, res.Order.EmailSent)

	// Later steps still ran.
	assert.Equal(t, 3, f.mirror.entries["1"].CurrentStock)
	assert.Equal(t, 0, f.carts.GetItemCount())
}

func TestSubmitOrderInventoryOutageIsSoft(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t)
	f.ledger.down = true

	res, err := f.svc.SubmitOrder(ctx, validCheckoutCustomer())
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "order placed, inventory sync pending")

	// Decrements landed locally and are queued for the remote.
	assert.Equal(t, 3, f.mirror.entries["1"].CurrentStock)
	assert.Len(t, f.queue.entries, 2)
	assert.Equal(t, 0, f.carts.GetItemCount())
}

func validCheckoutCustomer() orderdom.Customer {
	return orderdom.Customer{
		FirstName: "Rosa",
		LastName:  "Winters",
		Email:     "rosa@example.com",
		Phone:     "5551234567",
	}
}
