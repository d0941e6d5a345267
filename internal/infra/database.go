package infra

import (
	"fmt"

	"comercio/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (sequences, partial indexes).
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

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus the SQL patches. Exposed separately
// so integration tests can bring up a throwaway schema.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Client{},
		&model.Supplier{},
		&model.Sale{},
		&model.SaleItem{},
		&model.SalePayment{},
		&model.Expense{},
		&model.StockMovement{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// fully handle on its own. Each statement uses IF NOT EXISTS / DO-block guards
// so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Sequential human-readable sale numbers
		`CREATE SEQUENCE IF NOT EXISTS sales_number_seq START 1`,

		// Barcode is unique per owner, but only when present
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_products_owner_barcode') THEN
		    CREATE UNIQUE INDEX uni_products_owner_barcode
		        ON products (created_by, barcode)
		        WHERE barcode IS NOT NULL;
		  END IF;
		END $$`,

		// Partial index for the outstanding-debt listing
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sales_open_debt') THEN
		    CREATE INDEX idx_sales_open_debt
		        ON sales (created_by, created_at)
		        WHERE status = 'debt';
		  END IF;
		END $$`,

		// Stock movement audit lookups by product
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_movements_product') THEN
		    CREATE INDEX idx_stock_movements_product
		        ON stock_movements (product_id, created_at);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
