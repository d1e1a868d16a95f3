package infra

import (
	"fmt"

	"legofactory/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for all tables, then applies the idempotent DDL that GORM cannot express
// (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Order{},
		&model.OrderLine{},
		&model.WarehouseOrder{},
		&model.WarehouseOrderLine{},
		&model.StockLevel{},
		&model.StockMovement{},
		&model.AuditEvent{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// partial index for the scenario-refresh cron query
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_orders_confirmed_location') THEN
		    CREATE INDEX idx_orders_confirmed_location
		        ON orders (location_id)
		        WHERE status = 'CONFIRMED';
		  END IF;
		END $$`,
		// warehouse orders are almost always queried by their source order
		`CREATE INDEX IF NOT EXISTS idx_warehouse_orders_source
		     ON warehouse_orders (source_order_id, created_at DESC)`,
	}
	for _, p := range patches {
		if err := db.Exec(p).Error; err != nil {
			return err
		}
	}
	return nil
}
