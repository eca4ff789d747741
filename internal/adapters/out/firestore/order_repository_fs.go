// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderdom "bloomstead/internal/domain/order"
	"bloomstead/internal/domain/product"
)

// OrderRepositoryFS implements order.RemoteStore on Firestore.
//
// Collection design:
// - collection: orders
// - docId: order id (timestamp string)
// - order documents are written once; only status and the email flags are
//   updated afterwards.
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

// ----------------------------
// Doc mapping
// ----------------------------

type orderItemDoc struct {
	ProductID string `firestore:"productId"`
	Name      string `firestore:"name"`
	Price     string `firestore:"price"`
	Quantity  int    `firestore:"quantity"`
}

type orderDoc struct {
	ID               string         `firestore:"id"`
	Customer         map[string]any `firestore:"customer"`
	Items            []orderItemDoc `firestore:"items"`
	Total            float64        `firestore:"total"`
	Status           string         `firestore:"status"`
	EmailSent        bool           `firestore:"emailSent"`
	InvoiceEmailSent bool           `firestore:"invoiceEmailSent"`
	CreatedAt        time.Time      `firestore:"createdAt"`
}

func orderDocFromDomain(o orderdom.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDoc{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return orderDoc{
		ID: o.ID,
		Customer: map[string]any{
			"firstName": o.Customer.FirstName,
			"lastName":  o.Customer.LastName,
			"email":     o.Customer.Email,
			"phone":     o.Customer.Phone,
			"notes":     o.Customer.Notes,
		},
		Items:            items,
		Total:            o.Total,
		Status:           string(o.Status),
		EmailSent:        o.EmailSent,
		InvoiceEmailSent: o.InvoiceEmailSent,
		CreatedAt:        o.CreatedAt,
	}
}

// orderFromData decodes defensively from raw data: ids and prices may be
// numeric in older documents, totals may be strings.
func orderFromData(docID string, raw map[string]any) orderdom.Order {
	o := orderdom.Order{
		ID:               product.CoerceID(raw["id"]),
		Total:            product.CoerceFloat(raw["total"]),
		Status:           orderdom.Status(product.CoerceString(raw["status"])),
		EmailSent:        boolField(raw, "emailSent"),
		InvoiceEmailSent: boolField(raw, "invoiceEmailSent"),
	}
	if o.ID == "" {
		o.ID = docID
	}
	if !orderdom.ValidStatus(o.Status) {
		o.Status = orderdom.StatusPending
	}
	if t, ok := raw["createdAt"].(time.Time); ok {
		o.CreatedAt = t
	}

	if cust, ok := raw["customer"].(map[string]any); ok {
		o.Customer = orderdom.Customer{
			FirstName: strings.TrimSpace(product.CoerceString(cust["firstName"])),
			LastName:  strings.TrimSpace(product.CoerceString(cust["lastName"])),
			Email:     strings.TrimSpace(product.CoerceString(cust["email"])),
			Phone:     strings.TrimSpace(product.CoerceString(cust["phone"])),
			Notes:     strings.TrimSpace(product.CoerceString(cust["notes"])),
		}
	}

	if items, ok := raw["items"].([]any); ok {
		for _, el := range items {
			m, ok := el.(map[string]any)
			if !ok {
				continue
			}
			o.Items = append(o.Items, orderdom.ItemSnapshot{
				ProductID: product.CoerceID(pickItem(m, "productId", "product_id", "id")),
				Name:      strings.TrimSpace(product.CoerceString(m["name"])),
				Price:     strings.TrimSpace(product.CoerceString(m["price"])),
				Quantity:  product.CoerceInt(pickItem(m, "quantity", "qty")),
			})
		}
	}
	return o
}

func pickItem(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func boolField(raw map[string]any, key string) bool {
	v, ok := raw[key].(bool)
	return ok && v
}

// ----------------------------
// order.RemoteStore
// ----------------------------

func (r *OrderRepositoryFS) Create(ctx context.Context, o orderdom.Order) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(o.ID)
	if id == "" {
		return orderdom.ErrInvalidID
	}

	// Set (not Create): a retried submission with the same id is an
	// idempotent overwrite, not a duplicate.
	_, err := r.col().Doc(id).Set(ctx, orderDocFromDomain(o))
	if err != nil {
		return fmt.Errorf("order_repository_fs: create %s: %w", id, err)
	}
	return nil
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.Order{}, orderdom.ErrInvalidID
	}

	snap, err := r.col().Doc(oid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, fmt.Errorf("order_repository_fs: get %s: %w", oid, err)
	}
	return orderFromData(snap.Ref.ID, snap.Data()), nil
}

func (r *OrderRepositoryFS) List(ctx context.Context) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}

	out := []orderdom.Order{}
	it := r.col().OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("order_repository_fs: list: %w", err)
		}
		out = append(out, orderFromData(snap.Ref.ID, snap.Data()))
	}
	return out, nil
}

func (r *OrderRepositoryFS) SetStatus(ctx context.Context, id string, s orderdom.Status) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.ErrInvalidID
	}

	_, err := r.col().Doc(oid).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(s)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.ErrNotFound
		}
		return fmt.Errorf("order_repository_fs: set status %s: %w", oid, err)
	}
	return nil
}

func (r *OrderRepositoryFS) SetEmailFlags(ctx context.Context, id string, emailSent, invoiceEmailSent *bool) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.ErrInvalidID
	}

	updates := []firestore.Update{}
	if emailSent != nil {
		updates = append(updates, firestore.Update{Path: "emailSent", Value: *emailSent})
	}
	if invoiceEmailSent != nil {
		updates = append(updates, firestore.Update{Path: "invoiceEmailSent", Value: *invoiceEmailSent})
	}
	if len(updates) == 0 {
		return nil
	}

	_, err := r.col().Doc(oid).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.ErrNotFound
		}
		return fmt.Errorf("order_repository_fs: set email flags %s: %w", oid, err)
	}
	return nil
}
