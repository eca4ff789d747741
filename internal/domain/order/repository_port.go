// internal/domain/order/repository_port.go
package order

import "context"

// RemoteStore is the outbound port for the remote order store.
// Not-found policy: GetByID returns ErrNotFound.
type RemoteStore interface {
	Create(ctx context.Context, o Order) error
	GetByID(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)

	// SetStatus updates only the status field.
	SetStatus(ctx context.Context, id string, s Status) error

	// SetEmailFlags updates the idempotency flags; a nil field is unchanged.
	SetEmailFlags(ctx context.Context, id string, emailSent, invoiceEmailSent *bool) error
}

// FallbackStore is the local durable fallback used when the remote store is
// unreachable at checkout: the order is never lost, remote durability may
// lag. It is a slice of the Local Cache Mirror with its own table.
type FallbackStore interface {
	Save(ctx context.Context, o Order) error
	List(ctx context.Context) ([]Order, error)
	Delete(ctx context.Context, id string) error
}
