// internal/domain/product/entity.go
package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrNotFound  = errors.New("product: not found")
	ErrInvalidID = errors.New("product: invalid id")
)

// StockStatus is the display status of a ledger entry.
type StockStatus string

const (
	StatusInStock    StockStatus = "In Stock"
	StatusLowStock   StockStatus = "Low Stock"
	StatusOutOfStock StockStatus = "Out of Stock"
	StatusPreOrder   StockStatus = "Pre-Order/Coming Soon"
	StatusUnknown    StockStatus = "Unknown"
)

// LowStockThreshold is the stock count at or below which a product is shown
// as "Low Stock" (zero is always "Out of Stock").
const LowStockThreshold = 5

// LedgerEntry is the per-product stock ledger record.
// Invariant: CurrentStock >= 0.
// Invariant: Status == StatusOutOfStock iff CurrentStock <= 0, unless
// StatusOverride was set by a manual admin edit (the override wins until the
// next automatic recompute).
type LedgerEntry struct {
	CurrentStock   int         `json:"currentStock" firestore:"currentStock"`
	Status         StockStatus `json:"status" firestore:"status"`
	RestockDate    string      `json:"restockDate,omitempty" firestore:"restockDate,omitempty"`
	Notes          string      `json:"notes,omitempty" firestore:"notes,omitempty"`
	StatusOverride bool        `json:"statusOverride,omitempty" firestore:"statusOverride,omitempty"`
}

// DeriveStatus computes the automatic status for a stock count.
func DeriveStatus(stock int) StockStatus {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Recompute clamps the stock floor and refreshes the derived status.
// A manual override keeps its status but still gets the floor clamp.
func (e *LedgerEntry) Recompute() {
	if e == nil {
		return
	}
	if e.CurrentStock < 0 {
		e.CurrentStock = 0
	}
	if !e.StatusOverride {
		e.Status = DeriveStatus(e.CurrentStock)
	}
	if e.Status == "" {
		e.Status = StatusUnknown
	}
}

// LedgerPatch is a partial ledger update. A nil field means "no change".
type LedgerPatch struct {
	CurrentStock   *int         `json:"currentStock,omitempty"`
	Status         *StockStatus `json:"status,omitempty"`
	RestockDate    *string      `json:"restockDate,omitempty"`
	Notes          *string      `json:"notes,omitempty"`
	StatusOverride *bool        `json:"statusOverride,omitempty"`
}

// Apply merges the patch into the entry and recomputes derived state.
// An explicit Status in the patch is treated as a manual override unless the
// patch clears StatusOverride itself.
func (p LedgerPatch) Apply(e LedgerEntry) LedgerEntry {
	if p.CurrentStock != nil {
		e.CurrentStock = *p.CurrentStock
	}
	if p.Status != nil {
		e.Status = *p.Status
		e.StatusOverride = true
	}
	if p.StatusOverride != nil {
		e.StatusOverride = *p.StatusOverride
	}
	if p.RestockDate != nil {
		e.RestockDate = strings.TrimSpace(*p.RestockDate)
	}
	if p.Notes != nil {
		e.Notes = strings.TrimSpace(*p.Notes)
	}
	e.Recompute()
	return e
}

// Product is a catalog entry with its embedded ledger.
// ID is canonically a string; numeric ids from other sources are coerced.
// Price is kept as the raw decimal string and parsed defensively on use.
type Product struct {
	ID        string      `json:"id" firestore:"id"`
	Name      string      `json:"name" firestore:"name"`
	Price     string      `json:"price" firestore:"price"`
	Inventory LedgerEntry `json:"inventory" firestore:"inventory"`
}

// UnitPrice returns the parsed price, 0 for malformed values.
func (p Product) UnitPrice() float64 {
	return CoerceFloat(p.Price)
}

// ----------------------------
// Ingestion-boundary normalization
// ----------------------------

// Normalize maps a raw document (any known source field-name variant) onto
// the canonical Product schema. The rest of the core never branches on
// variants: id may be string or number, stock may live under currentStock /
// current_stock / stock, prices may be strings or numbers.
func Normalize(raw map[string]any) Product {
	p := Product{
		ID:    CoerceID(pick(raw, "id", "productId", "product_id")),
		Name:  strings.TrimSpace(CoerceString(pick(raw, "name", "title"))),
		Price: normalizePrice(pick(raw, "price")),
	}

	inv := raw
	if nested, ok := pick(raw, "inventory").(map[string]any); ok {
		inv = nested
	}
	p.Inventory = NormalizeLedger(inv)
	return p
}

// NormalizeLedger maps a raw ledger document onto a LedgerEntry.
func NormalizeLedger(raw map[string]any) LedgerEntry {
	e := LedgerEntry{
		CurrentStock: CoerceInt(pick(raw, "currentStock", "current_stock", "stock", "quantity")),
		RestockDate:  strings.TrimSpace(CoerceString(pick(raw, "restockDate", "restock_date"))),
		Notes:        strings.TrimSpace(CoerceString(pick(raw, "notes"))),
	}
	if v, ok := pick(raw, "statusOverride", "status_override").(bool); ok {
		e.StatusOverride = v
	}
	if s := strings.TrimSpace(CoerceString(pick(raw, "status"))); s != "" {
		e.Status = StockStatus(s)
	}
	e.Recompute()
	return e
}

func pick(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func normalizePrice(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// ----------------------------
// Defensive coercion
// ----------------------------

// CoerceID renders any id representation as the canonical string form.
func CoerceID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers arrive as float64; ids are integral.
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// CoerceInt parses any numeric representation, falling back to 0.
// Malformed values must never propagate into CurrentStock.
func CoerceInt(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return int(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
		return 0
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(f)
		}
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// CoerceFloat parses any numeric representation, falling back to 0.
// Currency strings may carry a leading "$".
func CoerceFloat(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
		return 0
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "$"))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

// CoerceString renders v as a string without inventing content for nil.
func CoerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
