// internal/application/usecase/admin_order_usecase.go
package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	orderdom "bloomstead/internal/domain/order"
	"bloomstead/internal/domain/product"
)

var (
	ErrAdminInvalidArgument = errors.New("admin_usecase: invalid argument")
	ErrAdminUnauthorized    = errors.New("admin_usecase: unauthorized")
)

// Guard verifies that the caller's ID token belongs to an admin.
type Guard interface {
	VerifyAdmin(ctx context.Context, idToken string) error
}

// OrderExporter uploads an export artifact and returns its location.
type OrderExporter interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// AdminOrderService covers the order-management side: status transitions
// (cancellation restocks inventory), invoice resends behind the idempotency
// flag, gift certificates and CSV export. Every mutation is gated on the
// admin guard.
type AdminOrderService struct {
	guard     Guard
	orders    orderdom.RemoteStore
	fallback  orderdom.FallbackStore
	inventory *InventoryService
	mailer    OrderMailer
	exporter  OrderExporter
	clock     Clock
}

func NewAdminOrderService(
	guard Guard,
	orders orderdom.RemoteStore,
	fallback orderdom.FallbackStore,
	inventory *InventoryService,
	mailer OrderMailer,
	exporter OrderExporter,
) *AdminOrderService {
	return &AdminOrderService{
		guard:     guard,
		orders:    orders,
		fallback:  fallback,
		inventory: inventory,
		mailer:    mailer,
		exporter:  exporter,
		clock:     systemClock{},
	}
}

func (s *AdminOrderService) WithClock(c Clock) *AdminOrderService {
	if c != nil {
		s.clock = c
	}
	return s
}

func (s *AdminOrderService) authorize(ctx context.Context, idToken string) error {
	if s.guard == nil {
		return ErrAdminUnauthorized
	}
	if err := s.guard.VerifyAdmin(ctx, strings.TrimSpace(idToken)); err != nil {
		return fmt.Errorf("%w: %v", ErrAdminUnauthorized, err)
	}
	return nil
}

// UpdateStatus moves an order to a new status. A transition into Cancelled
// restocks every line item through the reconciler; restock failures follow
// the usual queue-for-retry path and never block the status change.
func (s *AdminOrderService) UpdateStatus(ctx context.Context, idToken, orderID string, status orderdom.Status) error {
	if s == nil || s.orders == nil {
		return ErrAdminInvalidArgument
	}
	if err := s.authorize(ctx, idToken); err != nil {
		return err
	}

	id := strings.TrimSpace(orderID)
	if id == "" {
		return ErrAdminInvalidArgument
	}
	if !orderdom.ValidStatus(status) {
		return orderdom.ErrInvalidStatus
	}

	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.Status == status {
		return nil
	}

	if err := s.orders.SetStatus(ctx, id, status); err != nil {
		return fmt.Errorf("admin_usecase: set status %s: %w", id, err)
	}
	log.Printf("[admin] order %s: %s -> %s", id, o.Status, status)

	if status == orderdom.StatusCancelled && s.inventory != nil {
		for _, it := range o.Items {
			if _, rerr := s.inventory.Restock(ctx, it.ProductID, it.Quantity); rerr != nil {
				log.Printf("[admin] WARN: restock %s x%d failed: %v", it.ProductID, it.Quantity, rerr)
			}
		}
	}
	return nil
}

// ResendInvoice sends the invoice email for an order. When the
// invoiceEmailSent flag is already set and force is false, the duplicate is
// a no-op success, not an error.
func (s *AdminOrderService) ResendInvoice(ctx context.Context, idToken, orderID string, force bool) error {
	if s == nil || s.orders == nil || s.mailer == nil {
		return ErrAdminInvalidArgument
	}
	if err := s.authorize(ctx, idToken); err != nil {
		return err
	}

	id := strings.TrimSpace(orderID)
	if id == "" {
		return ErrAdminInvalidArgument
	}

	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.InvoiceEmailSent && !force {
		log.Printf("[admin] invoice for %s already sent, skipping", id)
		return nil
	}

	if err := s.mailer.SendInvoice(ctx, o); err != nil {
		return fmt.Errorf("admin_usecase: invoice send %s: %w", id, err)
	}

	sent := true
	if err := s.orders.SetEmailFlags(ctx, id, nil, &sent); err != nil {
		log.Printf("[admin] WARN: invoiceEmailSent flag update failed for %s: %v", id, err)
	}
	return nil
}

// SendGiftCertificate emails a freshly generated certificate code to the
// recipient and returns the code.
func (s *AdminOrderService) SendGiftCertificate(ctx context.Context, idToken, recipient string, amount float64) (string, error) {
	if s == nil || s.mailer == nil {
		return "", ErrAdminInvalidArgument
	}
	if err := s.authorize(ctx, idToken); err != nil {
		return "", err
	}

	to := strings.TrimSpace(recipient)
	if to == "" || amount <= 0 {
		return "", ErrAdminInvalidArgument
	}

	code := uuid.NewString()
	if err := s.mailer.SendGiftCertificate(ctx, to, code, amount); err != nil {
		return "", fmt.Errorf("admin_usecase: gift certificate send: %w", err)
	}
	log.Printf("[admin] gift certificate %s sent to %s", code, to)
	return code, nil
}

// AdjustStock is the manual ledger edit path (admin inventory screen). An
// explicit status in the patch becomes an override that wins until the next
// automatic recompute.
func (s *AdminOrderService) AdjustStock(ctx context.Context, idToken, productID string, patch product.LedgerPatch) (SyncResult, error) {
	if s == nil || s.inventory == nil {
		return SyncResult{}, ErrAdminInvalidArgument
	}
	if err := s.authorize(ctx, idToken); err != nil {
		return SyncResult{}, err
	}
	return s.inventory.UpdateInventory(ctx, productID, patch)
}

// ExportOrders renders every known order (remote plus local fallback) as
// CSV and uploads it, returning the artifact location.
func (s *AdminOrderService) ExportOrders(ctx context.Context, idToken string) (string, error) {
	if s == nil || s.orders == nil || s.exporter == nil {
		return "", ErrAdminInvalidArgument
	}
	if err := s.authorize(ctx, idToken); err != nil {
		return "", err
	}

	orders, err := s.orders.List(ctx)
	if err != nil {
		return "", fmt.Errorf("admin_usecase: list orders: %w", err)
	}
	if s.fallback != nil {
		local, lerr := s.fallback.List(ctx)
		if lerr != nil {
			log.Printf("[admin] WARN: fallback list failed: %v", lerr)
		} else {
			orders = mergeOrders(orders, local)
		}
	}

	data, err := ordersCSV(orders)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("orders-%s.csv", s.clock.Now().UTC().Format("20060102-150405"))
	loc, err := s.exporter.Upload(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("admin_usecase: export upload: %w", err)
	}
	log.Printf("[admin] exported %d orders to %s", len(orders), loc)
	return loc, nil
}

// mergeOrders unions remote and fallback orders by id (remote wins).
func mergeOrders(remote, local []orderdom.Order) []orderdom.Order {
	seen := make(map[string]struct{}, len(remote))
	out := make([]orderdom.Order, 0, len(remote)+len(local))
	for _, o := range remote {
		seen[o.ID] = struct{}{}
		out = append(out, o)
	}
	for _, o := range local {
		if _, ok := seen[o.ID]; ok {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func ordersCSV(orders []orderdom.Order) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "createdAt", "status", "customer", "email", "phone", "items", "total", "emailSent", "invoiceEmailSent"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("admin_usecase: csv: %w", err)
	}

	for _, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
		}
		rec := []string{
			o.ID,
			o.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			string(o.Status),
			strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName),
			o.Customer.Email,
			o.Customer.Phone,
			strings.Join(items, "; "),
			strconv.FormatFloat(o.Total, 'f', 2, 64),
			strconv.FormatBool(o.EmailSent),
			strconv.FormatBool(o.InvoiceEmailSent),
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("admin_usecase: csv: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("admin_usecase: csv: %w", err)
	}
	return buf.Bytes(), nil
}
