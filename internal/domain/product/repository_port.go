// internal/domain/product/repository_port.go
package product

import "context"

// RemoteStore is the outbound port for the remote catalog/ledger store.
//
// Storage (Firestore):
// - collection: products
// - docId: product id (canonical string form)
// - fields: name, price, inventory{currentStock, status, restockDate, notes, statusOverride}
//
// No multi-document transactions are assumed; writes are per-product partial
// merges. Not-found policy: Read returns ErrNotFound.
type RemoteStore interface {
	// Read returns the ledger entry for one product.
	Read(ctx context.Context, productID string) (LedgerEntry, error)

	// Write merges a partial ledger update into the product document.
	Write(ctx context.Context, productID string, patch LedgerPatch) error

	// ReadAll returns the full catalog with embedded ledger entries.
	ReadAll(ctx context.Context) ([]Product, error)
}

// MirrorStore is the outbound port for the durable local ledger mirror
// (one slice of the Local Cache Mirror; cart and sync queue have their own
// stores on disjoint tables).
type MirrorStore interface {
	// Get returns (entry, true) when the product is mirrored locally.
	// A missing row is (zero, false, nil), never an error.
	Get(ctx context.Context, productID string) (LedgerEntry, bool, error)

	// Put replaces the mirrored entry for the product (whole-value write).
	Put(ctx context.Context, productID string, e LedgerEntry) error

	// PutAll replaces the mirror with a catalog snapshot.
	PutAll(ctx context.Context, products []Product) error

	// All returns every mirrored product (catalog fallback on remote outage).
	All(ctx context.Context) ([]Product, error)
}
