// internal/adapters/out/gcs/order_export.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/storage"
)

// OrderExporter implements usecase.OrderExporter on a GCS bucket: admin
// order exports land under exports/ and the gs:// location is returned.
type OrderExporter struct {
	Client *storage.Client
	Bucket string
}

func NewOrderExporter(client *storage.Client, bucket string) *OrderExporter {
	return &OrderExporter{Client: client, Bucket: strings.TrimSpace(bucket)}
}

func (e *OrderExporter) Upload(ctx context.Context, name string, data []byte) (string, error) {
	if e == nil || e.Client == nil {
		return "", errors.New("order_export: storage client is nil")
	}
	if e.Bucket == "" {
		return "", errors.New("order_export: bucket is not configured")
	}
	objName := strings.TrimSpace(name)
	if objName == "" {
		return "", errors.New("order_export: object name is empty")
	}
	objName = "exports/" + objName

	w := e.Client.Bucket(e.Bucket).Object(objName).NewWriter(ctx)
	w.ContentType = "text/csv"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("order_export: write %s: %w", objName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("order_export: close %s: %w", objName, err)
	}

	loc := fmt.Sprintf("gs://%s/%s", e.Bucket, objName)
	log.Printf("[gcs] uploaded %s (%d bytes)", loc, len(data))
	return loc, nil
}
