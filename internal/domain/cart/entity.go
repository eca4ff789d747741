// internal/domain/cart/entity.go
package cart

import (
	"sort"
	"strings"

	"bloomstead/internal/domain/product"
)

// LineItem represents one line item in the cart: a copy of the product
// fields at add-time plus the desired quantity.
// Price is kept raw (string) and coerced on use, matching Product.
type LineItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal is price * quantity with defensive coercion; malformed prices or
// quantities contribute zero, never NaN.
func (li LineItem) Subtotal() float64 {
	qty := li.Quantity
	if qty < 0 {
		qty = 0
	}
	return product.CoerceFloat(li.Price) * float64(qty)
}

// AddOutcome reports what a ceiling-clamped add actually did.
type AddOutcome struct {
	Added     int  // units actually added (0 when stock is exhausted)
	Requested int  // units asked for
	Clamped   bool // true when Added < Requested
}

// SetOutcome reports what a ceiling-clamped quantity set actually did.
type SetOutcome struct {
	Quantity  int  // resulting quantity (0 means the item was removed)
	Requested int
	Clamped   bool // true when Quantity < Requested
	Removed   bool
}

// Cart maps product -> desired quantity. Items are merged by ProductID
// (string-coerced), kept in insertion order.
//
// The stock ceiling is enforced at every mutation against the stock known at
// the time of the check; this is best-effort, not transactional against
// concurrent shoppers.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Add increases the quantity for p, clamped to
// min(requested, stock - alreadyInCart). stock is the ledger value known at
// the time of the check. A request against exhausted stock adds nothing.
func (c *Cart) Add(p product.Product, requested, stock int) AddOutcome {
	out := AddOutcome{Requested: requested}
	if c == nil || requested <= 0 {
		out.Clamped = requested > 0
		return out
	}

	id := strings.TrimSpace(p.ID)
	if id == "" {
		return out
	}

	if stock < 0 {
		stock = 0
	}

	idx := c.indexOf(id)
	already := 0
	if idx >= 0 {
		already = c.Items[idx].Quantity
	}

	room := stock - already
	if room < 0 {
		room = 0
	}
	add := requested
	if add > room {
		add = room
		out.Clamped = true
	}
	out.Added = add
	if add == 0 {
		return out
	}

	if idx >= 0 {
		c.Items[idx].Quantity += add
		return out
	}
	c.Items = append(c.Items, LineItem{
		ProductID: id,
		Name:      strings.TrimSpace(p.Name),
		Price:     strings.TrimSpace(p.Price),
		Quantity:  add,
	})
	return out
}

// SetQuantity sets the quantity for productID, clamped to [0, stock].
// A target <= 0 removes the line item.
func (c *Cart) SetQuantity(productID string, requested, stock int) SetOutcome {
	out := SetOutcome{Requested: requested}
	if c == nil {
		return out
	}

	id := strings.TrimSpace(productID)
	idx := c.indexOf(id)
	if idx < 0 {
		return out
	}

	if stock < 0 {
		stock = 0
	}
	qty := requested
	if qty > stock {
		qty = stock
		out.Clamped = true
	}
	if qty <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		out.Quantity = 0
		out.Removed = true
		return out
	}

	c.Items[idx].Quantity = qty
	out.Quantity = qty
	return out
}

// Remove deletes the line item for productID (no-op when absent).
func (c *Cart) Remove(productID string) bool {
	if c == nil {
		return false
	}
	idx := c.indexOf(strings.TrimSpace(productID))
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	if c == nil {
		return
	}
	c.Items = []LineItem{}
}

// Quantity returns the current quantity for productID (0 when absent).
func (c *Cart) Quantity(productID string) int {
	if c == nil {
		return 0
	}
	idx := c.indexOf(strings.TrimSpace(productID))
	if idx < 0 {
		return 0
	}
	return c.Items[idx].Quantity
}

// Total folds price * quantity over the items. Non-numeric entries are
// treated as zero contribution; Total never returns NaN.
func (c *Cart) Total() float64 {
	if c == nil {
		return 0
	}
	total := 0.0
	for _, li := range c.Items {
		total += li.Subtotal()
	}
	return total
}

// ItemCount is the total number of units across all line items.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, li := range c.Items {
		if li.Quantity > 0 {
			n += li.Quantity
		}
	}
	return n
}

// Snapshot returns a defensive copy of the items, in a stable order, for
// freezing into an order.
func (c *Cart) Snapshot() []LineItem {
	if c == nil || len(c.Items) == 0 {
		return []LineItem{}
	}
	cp := make([]LineItem, len(c.Items))
	copy(cp, c.Items)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].ProductID < cp[j].ProductID })
	return cp
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
