// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bloomstead/internal/domain/product"
)

// ProductRepositoryFS implements product.RemoteStore on Firestore.
//
// Collection design:
// - collection: products
// - docId: product id (canonical string form)
// - fields: name, price, inventory{currentStock, status, restockDate, notes, statusOverride}
//
// Decoding goes through snap.Data() + product.Normalize rather than DataTo:
// older documents carry numeric ids, string prices and snake_case stock
// fields, and a schema drift must not turn catalog reads into errors.
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

// Read returns the ledger entry for one product.
func (r *ProductRepositoryFS) Read(ctx context.Context, productID string) (product.LedgerEntry, error) {
	if r == nil || r.Client == nil {
		return product.LedgerEntry{}, errors.New("product_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(productID)
	if id == "" {
		return product.LedgerEntry{}, product.ErrInvalidID
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return product.LedgerEntry{}, product.ErrNotFound
		}
		return product.LedgerEntry{}, fmt.Errorf("product_repository_fs: read %s: %w", id, err)
	}

	p := product.Normalize(snap.Data())
	return p.Inventory, nil
}

// Write merges a partial ledger update into the product document. Only the
// fields present in the patch are touched.
func (r *ProductRepositoryFS) Write(ctx context.Context, productID string, patch product.LedgerPatch) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(productID)
	if id == "" {
		return product.ErrInvalidID
	}

	fields := map[string]any{}
	if patch.CurrentStock != nil {
		stock := *patch.CurrentStock
		if stock < 0 {
			stock = 0
		}
		fields["currentStock"] = stock
	}
	if patch.Status != nil {
		fields["status"] = string(*patch.Status)
	}
	if patch.StatusOverride != nil {
		fields["statusOverride"] = *patch.StatusOverride
	}
	if patch.RestockDate != nil {
		fields["restockDate"] = strings.TrimSpace(*patch.RestockDate)
	}
	if patch.Notes != nil {
		fields["notes"] = strings.TrimSpace(*patch.Notes)
	}
	if len(fields) == 0 {
		return nil
	}

	_, err := r.col().Doc(id).Set(ctx, map[string]any{"inventory": fields}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("product_repository_fs: write %s: %w", id, err)
	}
	return nil
}

// ReadAll returns the full catalog. Documents that fail to decode are
// skipped, never fatal.
func (r *ProductRepositoryFS) ReadAll(ctx context.Context) ([]product.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	out := []product.Product{}
	it := r.col().Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("product_repository_fs: readAll: %w", err)
		}

		p := product.Normalize(snap.Data())
		if p.ID == "" {
			// docId is the source of truth when the doc omits an id field.
			p.ID = snap.Ref.ID
		}
		out = append(out, p)
	}
	return out, nil
}
