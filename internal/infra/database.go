package infra

import (
	"fmt"

	"tenderhub/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes).
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

// RunMigrations creates or updates the schema. Also used by integration
// tests against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on PostgreSQL < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Tender{},
		&model.Position{},
		&model.MarkupProfile{},
		&model.CostCategory{},
		&model.DetailCostCategory{},
		&model.LineItem{},
		&model.RedistributionRequest{},
		&model.RedistributionSource{},
		&model.RedistributionTarget{},
		&model.RedistributionDetail{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// The partial unique indexes back the application-level "at most one
// active per tender" rules with a database guarantee.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"one active markup profile per tender", `
CREATE UNIQUE INDEX IF NOT EXISTS uni_markup_profiles_active
    ON markup_profiles (tender_id)
    WHERE is_active`},
		{"one active redistribution per tender", `
CREATE UNIQUE INDEX IF NOT EXISTS uni_redistribution_requests_active
    ON redistribution_requests (tender_id)
    WHERE is_active`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
