// internal/adapters/out/localdb/order_fallback.go
package localdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	orderdom "bloomstead/internal/domain/order"
)

type orderRow struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Payload   string    `gorm:"column:payload"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (orderRow) TableName() string { return "orders_fallback" }

// OrderFallback implements order.FallbackStore: orders captured locally
// when the remote store is unreachable at checkout. Rows hold the full
// order as JSON so historical snapshots survive schema drift.
type OrderFallback struct {
	DB *gorm.DB
}

func NewOrderFallback(db *gorm.DB) *OrderFallback {
	return &OrderFallback{DB: db}
}

func (s *OrderFallback) Save(ctx context.Context, o orderdom.Order) error {
	if s == nil || s.DB == nil {
		return errors.New("order_fallback: db is nil")
	}
	id := strings.TrimSpace(o.ID)
	if id == "" {
		return orderdom.ErrInvalidID
	}

	payload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("order_fallback: encode %s: %w", id, err)
	}

	row := orderRow{ID: id, Payload: string(payload), CreatedAt: o.CreatedAt}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "created_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("order_fallback: save %s: %w", id, err)
	}
	return nil
}

func (s *OrderFallback) List(ctx context.Context) ([]orderdom.Order, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("order_fallback: db is nil")
	}

	var rows []orderRow
	if err := s.DB.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("order_fallback: list: %w", err)
	}

	out := make([]orderdom.Order, 0, len(rows))
	for _, r := range rows {
		var o orderdom.Order
		if err := json.Unmarshal([]byte(r.Payload), &o); err != nil {
			// Skip, don't fail the whole listing for one bad row.
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *OrderFallback) Delete(ctx context.Context, id string) error {
	if s == nil || s.DB == nil {
		return errors.New("order_fallback: db is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.ErrInvalidID
	}
	if err := s.DB.WithContext(ctx).Delete(&orderRow{}, "id = ?", oid).Error; err != nil {
		return fmt.Errorf("order_fallback: delete %s: %w", oid, err)
	}
	return nil
}
