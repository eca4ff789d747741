// internal/application/usecase/cart_usecase_test.go
package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloomstead/internal/domain/product"

	"bloomstead/internal/application/notify"
)

func mirroredProduct(m *fakeMirror, id, name, price string, stock int) product.Product {
	e := product.LedgerEntry{CurrentStock: stock}
	e.Recompute()
	m.entries[id] = e
	return product.Product{ID: id, Name: name, Price: price, Inventory: e}
}

func TestAddToCartClampsToMirroredStock(t *testing.T) {
	ctx := context.Background()
	store := &fakeCartStore{}
	mirror := newFakeMirror()
	rec := &recordingNotifier{}
	svc := NewCartService(store, mirror, rec)

	tulips := mirroredProduct(mirror, "1", "Tulip Bulbs", "6.00", 5)

	added, err := svc.AddToCart(ctx, tulips, 3)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddToCart(ctx, tulips, 4)
	require.NoError(t, err)
	assert.True(t, added)

	assert.Equal(t, 5, svc.GetItemCount())
	assert.Equal(t, []notify.Kind{notify.Warning}, rec.kinds())
	assert.Equal(t, 2, store.saves) // write-through on every mutation
}

func TestAddToCartOutOfStock(t *testing.T) {
	ctx := context.Background()
	mirror := newFakeMirror()
	rec := &recordingNotifier{}
	svc := NewCartService(&fakeCartStore{}, mirror, rec)

	roses := mirroredProduct(mirror, "2", "Rose Bushes", "24.00", 0)

	added, err := svc.AddToCart(ctx, roses, 1)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 0, svc.GetItemCount())
	assert.Equal(t, []notify.Kind{notify.Error}, rec.kinds())
}

func TestAddToCartExhaustedByCartContents(t *testing.T) {
	ctx := context.Background()
	mirror := newFakeMirror()
	rec := &recordingNotifier{}
	svc := NewCartService(&fakeCartStore{}, mirror, rec)

	tulips := mirroredProduct(mirror, "1", "Tulip Bulbs", "6.00", 2)

	_, err := svc.AddToCart(ctx, tulips, 2)
	require.NoError(t, err)

	added, err := svc.AddToCart(ctx, tulips, 1)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 2, svc.GetItemCount())
}

func TestAddToCartFallsBackToEmbeddedLedger(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(&fakeCartStore{}, newFakeMirror(), &recordingNotifier{})

	p := product.Product{ID: "9", Name: "Peony Roots", Price: "14.00",
		Inventory: product.LedgerEntry{CurrentStock: 3}}

	added, err := svc.AddToCart(ctx, p, 10)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 3, svc.GetItemCount())
}

func TestUpdateQuantityClampsAndNotifies(t *testing.T) {
	ctx := context.Background()
	mirror := newFakeMirror()
	rec := &recordingNotifier{}
	svc := NewCartService(&fakeCartStore{}, mirror, rec)

	tulips := mirroredProduct(mirror, "1", "Tulip Bulbs", "6.00", 4)
	_, err := svc.AddToCart(ctx, tulips, 1)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(ctx, "1", 10))
	assert.Equal(t, 4, svc.GetItemCount())
	assert.Contains(t, rec.kinds(), notify.Warning)

	require.NoError(t, svc.UpdateQuantity(ctx, "1", 0))
	assert.Equal(t, 0, svc.GetItemCount())
}

func TestCartRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	store := &fakeCartStore{}
	mirror := newFakeMirror()
	svc := NewCartService(store, mirror, nil)

	tulips := mirroredProduct(mirror, "1", "Tulip Bulbs", "6.00", 5)
	_, err := svc.AddToCart(ctx, tulips, 2)
	require.NoError(t, err)

	// Fresh service over the same store simulates a restart.
	restarted := NewCartService(store, mirror, nil)
	require.NoError(t, restarted.Load(ctx))
	assert.Equal(t, 2, restarted.GetItemCount())
	assert.InDelta(t, 12.00, restarted.GetTotal(), 0.001)
}

func TestClearCartEmptiesStore(t *testing.T) {
	ctx := context.Background()
	store := &fakeCartStore{}
	mirror := newFakeMirror()
	svc := NewCartService(store, mirror, nil)

	tulips := mirroredProduct(mirror, "1", "Tulip Bulbs", "6.00", 5)
	_, err := svc.AddToCart(ctx, tulips, 2)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx))
	assert.Equal(t, 0, svc.GetItemCount())
	assert.Empty(t, store.items)
}

func TestAddToCartRejectsBlankID(t *testing.T) {
	_, err := NewCartService(&fakeCartStore{}, newFakeMirror(), nil).
		AddToCart(context.Background(), product.Product{ID: "  "}, 1)
	assert.ErrorIs(t, err, ErrCartInvalidArgument)
}
