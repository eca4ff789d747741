// internal/adapters/out/localdb/cart_store.go
package localdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	cartdom "bloomstead/internal/domain/cart"
)

type cartItemRow struct {
	ProductID string `gorm:"primaryKey;column:product_id"`
	Name      string `gorm:"column:name"`
	Price     string `gorm:"column:price"`
	Quantity  int    `gorm:"column:quantity"`
}

func (cartItemRow) TableName() string { return "cart_items" }

// CartStore implements cart.Store: the persisted cart slice of the Local
// Cache Mirror. Save replaces the whole table (write-through, no partial
// row mutations), so a reload reconstructs exactly what was last written.
type CartStore struct {
	DB *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{DB: db}
}

func (s *CartStore) Load(ctx context.Context) ([]cartdom.LineItem, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("cart_store: db is nil")
	}

	var rows []cartItemRow
	if err := s.DB.WithContext(ctx).Order("product_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cart_store: load: %w", err)
	}

	items := make([]cartdom.LineItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, cartdom.LineItem{
			ProductID: r.ProductID,
			Name:      r.Name,
			Price:     r.Price,
			Quantity:  r.Quantity,
		})
	}
	return items, nil
}

func (s *CartStore) Save(ctx context.Context, items []cartdom.LineItem) error {
	if s == nil || s.DB == nil {
		return errors.New("cart_store: db is nil")
	}

	rows := make([]cartItemRow, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" {
			continue
		}
		rows = append(rows, cartItemRow{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&cartItemRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("cart_store: save: %w", err)
	}
	return nil
}

func (s *CartStore) Clear(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("cart_store: db is nil")
	}
	if err := s.DB.WithContext(ctx).Where("1 = 1").Delete(&cartItemRow{}).Error; err != nil {
		return fmt.Errorf("cart_store: clear: %w", err)
	}
	return nil
}
