// internal/platform/di/container.go
package di

import (
	"context"
	"log"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	fsadapter "bloomstead/internal/adapters/out/firestore"
	"bloomstead/internal/adapters/out/gcs"
	"bloomstead/internal/adapters/out/localdb"
	"bloomstead/internal/adapters/out/mail"
	"bloomstead/internal/application/notify"
	"bloomstead/internal/application/usecase"
	orderdom "bloomstead/internal/domain/order"
	"bloomstead/internal/domain/product"
	"bloomstead/internal/infra/config"
	"bloomstead/internal/infra/firebase"
	firestoreinfra "bloomstead/internal/infra/firestore"
)

// Container wires the whole storefront core: infra clients, Local Cache
// Mirror stores, remote repositories and the services on top of them.
// Remote-dependent pieces degrade to nil and are tolerated downstream (the
// reconciler queues, the catalog falls back to the mirror); the local
// SQLite mirror is the only hard requirement.
type Container struct {
	Config *config.Config

	Firestore *firestoreinfra.ClientWrapper
	LocalDB   *gorm.DB

	Cart      *usecase.CartService
	Inventory *usecase.InventoryService
	Sync      *usecase.SyncService
	Checkout  *usecase.CheckoutService
	Admin     *usecase.AdminOrderService

	storageClient *storage.Client
	smClient      *secretmanager.Client
}

// NewContainer builds everything from the environment. notifier may be nil
// (falls back to the log sink).
func NewContainer(ctx context.Context, notifier notify.Notifier) (*Container, error) {
	cfg := config.Load()
	c := &Container{Config: cfg}

	// Local Cache Mirror (hard requirement: user-visible state lives here
	// when the remote is down).
	db, err := localdb.Open(cfg.LocalDBPath)
	if err != nil {
		return nil, err
	}
	c.LocalDB = db

	cartStore := localdb.NewCartStore(db)
	mirror := localdb.NewInventoryMirror(db)
	queueStore := localdb.NewSyncQueueStore(db)
	orderFallback := localdb.NewOrderFallback(db)

	// Remote stores: a failure here degrades to offline mode instead of
	// refusing to boot.
	var (
		productRepo *fsadapter.ProductRepositoryFS
		orderRepo   *fsadapter.OrderRepositoryFS
	)
	if fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile); err != nil {
		log.Printf("[di] WARN: firestore init failed: %v (running from local cache only)", err)
	} else {
		c.Firestore = fs
		productRepo = fsadapter.NewProductRepositoryFS(fs.Client)
		orderRepo = fsadapter.NewOrderRepositoryFS(fs.Client)
	}

	// Mail. The API key comes from env, falling back to Secret Manager.
	mailer := c.buildMailer(ctx)

	// Admin guard.
	var guard usecase.Guard
	if g, err := firebase.NewAdminGuard(ctx, cfg.FirebaseProjectID, cfg.FirestoreCredentialsFile); err != nil {
		log.Printf("[di] WARN: firebase auth init failed: %v (admin operations disabled)", err)
	} else {
		guard = g
	}

	// Order export bucket.
	var exporter usecase.OrderExporter
	if cfg.GCSBucket != "" {
		if sc, err := storage.NewClient(ctx, storageOpts(cfg)...); err != nil {
			log.Printf("[di] WARN: storage init failed: %v (order export disabled)", err)
		} else {
			c.storageClient = sc
			exporter = gcs.NewOrderExporter(sc, cfg.GCSBucket)
		}
	}

	// Services. The nil-interface dance below matters: a typed nil pointer
	// stored in an interface is not nil anymore, so only assign when the
	// adapter exists.
	var remoteProducts = nilIfUnsetProduct(productRepo)
	var remoteOrders = nilIfUnsetOrder(orderRepo)

	c.Inventory = usecase.NewInventoryService(remoteProducts, mirror, queueStore, notifier).
		WithRemoteTimeout(cfg.RemoteTimeout)
	c.Sync = usecase.NewSyncService(remoteProducts, queueStore).
		WithRemoteTimeout(cfg.RemoteTimeout)
	c.Cart = usecase.NewCartService(cartStore, mirror, notifier)
	c.Checkout = usecase.NewCheckoutService(c.Cart, remoteOrders, orderFallback, c.Inventory, mailer, notifier)
	c.Admin = usecase.NewAdminOrderService(guard, remoteOrders, orderFallback, c.Inventory, mailer, exporter)

	return c, nil
}

func (c *Container) buildMailer(ctx context.Context) usecase.OrderMailer {
	cfg := c.Config

	apiKey := cfg.SendGridAPIKey
	if apiKey == "" && cfg.SendGridSecretID != "" {
		sm, err := secretmanager.NewClient(ctx)
		if err != nil {
			log.Printf("[di] WARN: secretmanager init failed: %v", err)
		} else {
			c.smClient = sm
			provider := &secretProviderSM{sm: sm, projectID: cfg.FirestoreProjectID}
			if key, err := provider.Get(ctx, cfg.SendGridSecretID); err != nil {
				log.Printf("[di] WARN: sendgrid key lookup failed: %v (mail disabled)", err)
			} else {
				apiKey = key
			}
		}
	}
	if apiKey == "" {
		log.Printf("[di] WARN: no SendGrid API key; order emails will fail to send")
	}

	client := mail.NewSendGridClient(apiKey)
	return mail.NewOrderMailer(client, cfg.SendGridFrom, cfg.ShopBaseURL)
}

func nilIfUnsetProduct(r *fsadapter.ProductRepositoryFS) product.RemoteStore {
	if r == nil {
		return nil
	}
	return r
}

func nilIfUnsetOrder(r *fsadapter.OrderRepositoryFS) orderdom.RemoteStore {
	if r == nil {
		return nil
	}
	return r
}

func storageOpts(cfg *config.Config) []option.ClientOption {
	if cfg.FirestoreCredentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(cfg.FirestoreCredentialsFile)}
	}
	return nil
}

// Close releases every client the container owns.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Firestore != nil {
		if err := c.Firestore.Close(); err != nil {
			log.Printf("[di] WARN: firestore close: %v", err)
		}
	}
	if c.storageClient != nil {
		if err := c.storageClient.Close(); err != nil {
			log.Printf("[di] WARN: storage close: %v", err)
		}
	}
	if c.smClient != nil {
		if err := c.smClient.Close(); err != nil {
			log.Printf("[di] WARN: secretmanager close: %v", err)
		}
	}
	if c.LocalDB != nil {
		if sqlDB, err := c.LocalDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
