// internal/domain/cart/store_port.go
package cart

import "context"

// Store is the persistence port for the cart slice of the Local Cache
// Mirror. The cart service writes through on every mutation; Load restores
// the session after a restart.
//
// Rows are whole-value replacements keyed by productId; a missing cart is an
// empty cart, never an error.
type Store interface {
	Load(ctx context.Context) ([]LineItem, error)
	Save(ctx context.Context, items []LineItem) error
	Clear(ctx context.Context) error
}
