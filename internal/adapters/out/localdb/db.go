// internal/adapters/out/localdb/db.go
package localdb

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens (creating if needed) the embedded SQLite database backing the
// Local Cache Mirror and migrates its tables. The cart, ledger mirror, sync
// queue and order fallback each get their own table with a typed schema;
// nothing shares rows, so no cross-store locking is needed.
func Open(path string) (*gorm.DB, error) {
	if path == "" {
		path = "bloomstead.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("localdb: open %s: %w", path, err)
	}

	if err := db.AutoMigrate(
		&cartItemRow{},
		&mirrorRow{},
		&syncEntryRow{},
		&orderRow{},
	); err != nil {
		return nil, fmt.Errorf("localdb: migrate: %w", err)
	}

	log.Printf("[localdb] opened %s", path)
	return db, nil
}
