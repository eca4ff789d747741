// internal/adapters/out/localdb/inventory_mirror.go
package localdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bloomstead/internal/domain/product"
)

type mirrorRow struct {
	ProductID      string    `gorm:"primaryKey;column:product_id"`
	Name           string    `gorm:"column:name"`
	Price          string    `gorm:"column:price"`
	CurrentStock   int       `gorm:"column:current_stock"`
	Status         string    `gorm:"column:status"`
	RestockDate    string    `gorm:"column:restock_date"`
	Notes          string    `gorm:"column:notes"`
	StatusOverride bool      `gorm:"column:status_override"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (mirrorRow) TableName() string { return "inventory_mirror" }

func (r mirrorRow) ledger() product.LedgerEntry {
	e := product.LedgerEntry{
		CurrentStock:   r.CurrentStock,
		Status:         product.StockStatus(r.Status),
		RestockDate:    r.RestockDate,
		Notes:          r.Notes,
		StatusOverride: r.StatusOverride,
	}
	e.Recompute()
	return e
}

// InventoryMirror implements product.MirrorStore: the durable last-known
// ledger snapshot. Writes are whole-row replacements keyed by product id; a
// missing row is (zero, false), never an error.
type InventoryMirror struct {
	DB *gorm.DB
}

func NewInventoryMirror(db *gorm.DB) *InventoryMirror {
	return &InventoryMirror{DB: db}
}

func (s *InventoryMirror) Get(ctx context.Context, productID string) (product.LedgerEntry, bool, error) {
	if s == nil || s.DB == nil {
		return product.LedgerEntry{}, false, errors.New("inventory_mirror: db is nil")
	}

	var row mirrorRow
	err := s.DB.WithContext(ctx).First(&row, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product.LedgerEntry{}, false, nil
	}
	if err != nil {
		return product.LedgerEntry{}, false, fmt.Errorf("inventory_mirror: get %s: %w", productID, err)
	}
	return row.ledger(), true, nil
}

func (s *InventoryMirror) Put(ctx context.Context, productID string, e product.LedgerEntry) error {
	if s == nil || s.DB == nil {
		return errors.New("inventory_mirror: db is nil")
	}
	if productID == "" {
		return product.ErrInvalidID
	}

	e.Recompute()
	row := mirrorRow{
		ProductID:      productID,
		CurrentStock:   e.CurrentStock,
		Status:         string(e.Status),
		RestockDate:    e.RestockDate,
		Notes:          e.Notes,
		StatusOverride: e.StatusOverride,
		UpdatedAt:      time.Now().UTC(),
	}

	// Upsert on the ledger columns only: name/price stay whatever the last
	// catalog refresh wrote.
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_stock", "status", "restock_date", "notes", "status_override", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("inventory_mirror: put %s: %w", productID, err)
	}
	return nil
}

func (s *InventoryMirror) PutAll(ctx context.Context, products []product.Product) error {
	if s == nil || s.DB == nil {
		return errors.New("inventory_mirror: db is nil")
	}

	now := time.Now().UTC()
	rows := make([]mirrorRow, 0, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		e := p.Inventory
		e.Recompute()
		rows = append(rows, mirrorRow{
			ProductID:      p.ID,
			Name:           p.Name,
			Price:          p.Price,
			CurrentStock:   e.CurrentStock,
			Status:         string(e.Status),
			RestockDate:    e.RestockDate,
			Notes:          e.Notes,
			StatusOverride: e.StatusOverride,
			UpdatedAt:      now,
		})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&mirrorRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("inventory_mirror: putAll: %w", err)
	}
	return nil
}

func (s *InventoryMirror) All(ctx context.Context) ([]product.Product, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("inventory_mirror: db is nil")
	}

	var rows []mirrorRow
	if err := s.DB.WithContext(ctx).Order("product_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("inventory_mirror: all: %w", err)
	}

	out := make([]product.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, product.Product{
			ID:        r.ProductID,
			Name:      r.Name,
			Price:     r.Price,
			Inventory: r.ledger(),
		})
	}
	return out, nil
}
