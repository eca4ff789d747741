// internal/domain/syncqueue/store_port.go
package syncqueue

import "context"

// Store is the persistence port for the pending-sync queue slice of the
// Local Cache Mirror.
//
// Enqueue must replace any existing entry for the same product (latest write
// wins). All on an empty or missing queue returns an empty slice, never an
// error; entries persist across restarts until removed.
type Store interface {
	Enqueue(ctx context.Context, e Entry) error
	All(ctx context.Context) ([]Entry, error)
	Remove(ctx context.Context, productID string) error
}
