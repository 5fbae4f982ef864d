package slot

import (
	"context"
	"fmt"
	"log"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
)

// Open builds the slot backend selected by cfg. The returned func releases
// any database handle and is never nil.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (order.Slot, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.BackendFile:
		f, err := NewFile(cfg.StorePath, cfg.StoreKey)
		if err != nil {
			return nil, noop, err
		}
		logger.Printf("order slot: file %s", f.Path())
		return f, noop, nil

	case config.BackendPostgres:
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.PostgresDSN, logger); err != nil {
				return nil, noop, err
			}
		}
		sqlDB, err := db.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		logger.Printf("order slot: postgres kv_slots[%s]", cfg.StoreKey)
		return NewPostgres(sqlDB, cfg.StoreKey), func() { _ = sqlDB.Close() }, nil

	case config.BackendMySQL:
		gdb, err := db.OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		s := NewMySQL(gdb, cfg.StoreKey)
		if cfg.RunMigrations {
			if err := s.Migrate(); err != nil {
				closeFn()
				return nil, noop, err
			}
		}
		logger.Printf("order slot: mysql order_slots[%s]", cfg.StoreKey)
		return s, closeFn, nil
	}

	return nil, noop, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
