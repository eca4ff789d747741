// cmd/shopd/main.go
package main

import (
	"context"
	"log"
	"os"

	"bloomstead/internal/application/notify"
	"bloomstead/internal/platform/di"
)

// shopd is the storefront maintenance entrypoint: it boots the container,
// verifies remote connectivity and drains the inventory sync queue (the
// "retry on next app load" trigger). The storefront UI talks to the same
// container through its own embedding.
func main() {
	ctx := context.Background()

	cont, err := di.NewContainer(ctx, notify.LogNotifier{})
	if err != nil {
		log.Printf("[boot] FATAL: container init failed: %v", err)
		os.Exit(1)
	}
	defer cont.Close()

	if cont.Firestore != nil {
		if err := cont.Firestore.Ping(ctx); err != nil {
			log.Printf("[boot] WARN: firestore unreachable: %v (queued updates stay queued)", err)
		}
	}

	report, err := cont.Sync.Process(ctx)
	if err != nil {
		log.Printf("[boot] sync queue drain failed: %v", err)
		os.Exit(1)
	}
	log.Printf("[boot] done: synced=%d remaining=%d", report.Synced, report.Remaining)
}
