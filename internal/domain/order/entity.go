// internal/domain/order/entity.go
package order

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"bloomstead/internal/domain/cart"
	"bloomstead/internal/domain/product"
)

var (
	ErrNotFound      = errors.New("order: not found")
	ErrInvalidID     = errors.New("order: invalid id")
	ErrEmptyCart     = errors.New("order: cart is empty")
	ErrInvalidStatus = errors.New("order: invalid status")
)

// Status is the admin-mutable order state.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// ValidStatus reports whether s is one of the known order states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Customer holds the checkout contact fields.
type Customer struct {
	FirstName string `json:"firstName" firestore:"firstName"`
	LastName  string `json:"lastName" firestore:"lastName"`
	Email     string `json:"email" firestore:"email"`
	Phone     string `json:"phone" firestore:"phone"`
	Notes     string `json:"notes,omitempty" firestore:"notes,omitempty"`
}

// ItemSnapshot is a frozen copy of a cart line item at submission time,
// decoupled from the live product so later price/stock edits cannot affect
// historical orders.
type ItemSnapshot struct {
	ProductID string `json:"productId" firestore:"productId"`
	Name      string `json:"name" firestore:"name"`
	Price     string `json:"price" firestore:"price"`
	Quantity  int    `json:"quantity" firestore:"quantity"`
}

// Order is created once at checkout and immutable afterwards except for
// Status and the email idempotency flags.
type Order struct {
	ID       string         `json:"id" firestore:"id"`
	Customer Customer       `json:"customer" firestore:"customer"`
	Items    []ItemSnapshot `json:"items" firestore:"items"`
	Total    float64        `json:"total" firestore:"total"`
	Status   Status         `json:"status" firestore:"status"`

	// Idempotency flags preventing duplicate notification sends.
	EmailSent        bool `json:"emailSent" firestore:"emailSent"`
	InvoiceEmailSent bool `json:"invoiceEmailSent" firestore:"invoiceEmailSent"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// New freezes the cart into an order. The id is a timestamp-based string,
// unique per checkout attempt. Totals use defensive coercion: a malformed
// price contributes zero, never NaN.
func New(customer Customer, items []cart.LineItem, now time.Time) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	snaps := make([]ItemSnapshot, 0, len(items))
	total := 0.0
	for _, li := range items {
		if strings.TrimSpace(li.ProductID) == "" || li.Quantity <= 0 {
			continue
		}
		snaps = append(snaps, ItemSnapshot{
			ProductID: strings.TrimSpace(li.ProductID),
			Name:      strings.TrimSpace(li.Name),
			Price:     strings.TrimSpace(li.Price),
			Quantity:  li.Quantity,
		})
		total += li.Subtotal()
	}
	if len(snaps) == 0 {
		return Order{}, ErrEmptyCart
	}

	return Order{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Customer:  normalizeCustomer(customer),
		Items:     snaps,
		Total:     total,
		Status:    StatusPending,
		CreatedAt: now.UTC(),
	}, nil
}

func normalizeCustomer(c Customer) Customer {
	return Customer{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Phone:     strings.TrimSpace(c.Phone),
		Notes:     strings.TrimSpace(c.Notes),
	}
}

// ----------------------------
// Customer validation
// ----------------------------

// FieldErrors maps field name -> message. It is the hard gate of checkout:
// returned before any side effect is triggered.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "order: validation failed"
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	// deterministic message for logs
	sort.Strings(keys)
	return "order: invalid fields: " + strings.Join(keys, ", ")
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateCustomer checks first/last name, email format and 10-digit phone
// (separators stripped). Returns nil when everything passes.
func ValidateCustomer(c Customer) FieldErrors {
	fe := FieldErrors{}

	if strings.TrimSpace(c.FirstName) == "" {
		fe["firstName"] = "first name is required"
	}
	if strings.TrimSpace(c.LastName) == "" {
		fe["lastName"] = "last name is required"
	}

	email := strings.TrimSpace(c.Email)
	if email == "" {
		fe["email"] = "email is required"
	} else if !emailPattern.MatchString(email) {
		fe["email"] = "email format is invalid"
	}

	digits := digitsOnly(c.Phone)
	if digits == "" {
		fe["phone"] = "phone is required"
	} else if len(digits) != 10 {
		fe["phone"] = "phone must be 10 digits"
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ItemSubtotal exposes the coerced per-line amount for invoices.
func (s ItemSnapshot) ItemSubtotal() float64 {
	qty := s.Quantity
	if qty < 0 {
		qty = 0
	}
	return product.CoerceFloat(s.Price) * float64(qty)
}
