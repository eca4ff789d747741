// internal/adapters/out/localdb/sync_queue_store.go
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

	"bloomstead/internal/domain/product"
	"bloomstead/internal/domain/syncqueue"
)

type syncEntryRow struct {
	ProductID string    `gorm:"primaryKey;column:product_id"`
	Patch     string    `gorm:"column:patch"`
	QueuedAt  time.Time `gorm:"column:queued_at"`
}

func (syncEntryRow) TableName() string { return "inventory_sync_queue" }

// SyncQueueStore implements syncqueue.Store. The product id is the primary
// key and Enqueue upserts, so "at most one entry per product, latest write
// wins" holds structurally rather than by scanning.
type SyncQueueStore struct {
	DB *gorm.DB
}

func NewSyncQueueStore(db *gorm.DB) *SyncQueueStore {
	return &SyncQueueStore{DB: db}
}

func (s *SyncQueueStore) Enqueue(ctx context.Context, e syncqueue.Entry) error {
	if s == nil || s.DB == nil {
		return errors.New("sync_queue_store: db is nil")
	}
	id := strings.TrimSpace(e.ProductID)
	if id == "" {
		return product.ErrInvalidID
	}

	payload, err := json.Marshal(e.Patch)
	if err != nil {
		return fmt.Errorf("sync_queue_store: encode %s: %w", id, err)
	}

	queuedAt := e.QueuedAt
	if queuedAt.IsZero() {
		queuedAt = time.Now().UTC()
	}

	row := syncEntryRow{ProductID: id, Patch: string(payload), QueuedAt: queuedAt}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"patch", "queued_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("sync_queue_store: enqueue %s: %w", id, err)
	}
	return nil
}

func (s *SyncQueueStore) All(ctx context.Context) ([]syncqueue.Entry, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("sync_queue_store: db is nil")
	}

	var rows []syncEntryRow
	if err := s.DB.WithContext(ctx).Order("queued_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sync_queue_store: all: %w", err)
	}

	out := make([]syncqueue.Entry, 0, len(rows))
	for _, r := range rows {
		var patch product.LedgerPatch
		if err := json.Unmarshal([]byte(r.Patch), &patch); err != nil {
			// A corrupt entry can never sync; drop it rather than wedging
			// the queue forever.
			_ = s.Remove(ctx, r.ProductID)
			continue
		}
		out = append(out, syncqueue.Entry{
			ProductID: r.ProductID,
			Patch:     patch,
			QueuedAt:  r.QueuedAt,
		})
	}
	return out, nil
}

func (s *SyncQueueStore) Remove(ctx context.Context, productID string) error {
	if s == nil || s.DB == nil {
		return errors.New("sync_queue_store: db is nil")
	}
	id := strings.TrimSpace(productID)
	if id == "" {
		return product.ErrInvalidID
	}
	if err := s.DB.WithContext(ctx).Delete(&syncEntryRow{}, "product_id = ?", id).Error; err != nil {
		return fmt.Errorf("sync_queue_store: remove %s: %w", id, err)
	}
	return nil
}
