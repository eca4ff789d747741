// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bloomstead/internal/domain/product"
)

func tulip() product.Product {
	return product.Product{
		ID:    "1",
		Name:  "Tulip Bulbs",
		Price: "6.00",
		Inventory: product.LedgerEntry{
			CurrentStock: 5,
			Status:       product.StatusLowStock,
		},
	}
}

func TestAddMergesAndClampsToStock(t *testing.T) {
	c := &Cart{}
	p := tulip()

	out := c.Add(p, 3, 5)
	assert.Equal(t, 3, out.Added)
	assert.False(t, out.Clamped)

	// Second add of 4 only has room for 2 more.
	out = c.Add(p, 4, 5)
	assert.Equal(t, 2, out.Added)
	assert.True(t, out.Clamped)

	assert.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Quantity("1"))
}

func TestAddAgainstExhaustedStock(t *testing.T) {
	c := &Cart{}

	out := c.Add(tulip(), 1, 0)
	assert.Equal(t, 0, out.Added)
	assert.True(t, out.Clamped)
	assert.Empty(t, c.Items)
}

func TestAddIgnoresNonPositiveQuantity(t *testing.T) {
	c := &Cart{}
	out := c.Add(tulip(), 0, 5)
	assert.Equal(t, 0, out.Added)
	assert.Empty(t, c.Items)
}

func TestSetQuantityClampsAndRemoves(t *testing.T) {
	c := &Cart{}
	c.Add(tulip(), 2, 5)

	out := c.SetQuantity("1", 9, 5)
	assert.Equal(t, 5, out.Quantity)
	assert.True(t, out.Clamped)

	out = c.SetQuantity("1", 0, 5)
	assert.True(t, out.Removed)
	assert.Empty(t, c.Items)
}

func TestSetQuantityUnknownProductIsNoop(t *testing.T) {
	c := &Cart{}
	out := c.SetQuantity("missing", 2, 5)
	assert.False(t, out.Removed)
	assert.Equal(t, 0, out.Quantity)
	assert.Empty(t, c.Items)
}

func TestTotalSkipsMalformedEntries(t *testing.T) {
	c := &Cart{Items: []LineItem{
		{ProductID: "1", Name: "Tulip Bulbs", Price: "6.00", Quantity: 2},
		{ProductID: "2", Name: "Mystery", Price: "abc", Quantity: 3},
		{ProductID: "3", Name: "Peony Roots", Price: "14.50", Quantity: 1},
	}}

	// "abc" contributes zero, never NaN.
	assert.InDelta(t, 26.50, c.Total(), 0.001)
	assert.Equal(t, 6, c.ItemCount())
}

func TestClearAndRemove(t *testing.T) {
	c := &Cart{}
	c.Add(tulip(), 2, 5)

	assert.True(t, c.Remove("1"))
	assert.False(t, c.Remove("1"))

	c.Add(tulip(), 2, 5)
	c.Clear()
	assert.Empty(t, c.Items)
	assert.Equal(t, 0.0, c.Total())
}

func TestSnapshotIsDetached(t *testing.T) {
	c := &Cart{}
	c.Add(tulip(), 2, 5)

	snap := c.Snapshot()
	snap[0].Quantity = 99
	assert.Equal(t, 2, c.Quantity("1"))
}
