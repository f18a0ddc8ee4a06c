package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-table-booking/internal/config"
	"github.com/iliyamo/restaurant-table-booking/internal/database"
	"github.com/iliyamo/restaurant-table-booking/internal/lock"
	"github.com/iliyamo/restaurant-table-booking/internal/repository"
	"github.com/iliyamo/restaurant-table-booking/internal/repository/memory"
	"github.com/iliyamo/restaurant-table-booking/internal/service"
)

// openStore returns the configured store and a close func.  With
// migrateUp the schema is brought up to date before returning.
func openStore(ctx context.Context, cfg config.Config, migrateUp bool) (service.AdminStore, func(), error) {
	if cfg.Store == config.StoreMemory {
		log.Printf("store: in-memory, data is lost on exit")
		return memory.New(), func() {}, nil
	}
	db, err := database.Open(cfg.DB.DSN())
	if err != nil {
		return nil, nil, err
	}
	if migrateUp {
		if err := runMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return repository.NewStore(db), func() { _ = db.Close() }, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	applied, err := database.Migrate(ctx, db)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, name := range applied {
		log.Printf("migrate: applied %s", name)
	}
	return nil
}

// newLocker picks the slot lock backend.  The redis backend needs a live
// client; without one the in-process lock is used, which is only safe
// with a single replica.
func newLocker(cfg config.BookingConfig, rdb *redis.Client) lock.Locker {
	if cfg.LockBackend == config.LockRedis {
		if rdb != nil {
			return lock.NewRedis(rdb, cfg.LockPrefix, cfg.LockTTL)
		}
		log.Printf("lock: redis unavailable, falling back to in-process slot locks")
	}
	return lock.NewLocal()
}
