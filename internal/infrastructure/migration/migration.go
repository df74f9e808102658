// Package migration applies versioned schema migrations from SQL scripts
// embedded in the binary, so deployments never depend on files on disk.
package migration

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"payhook/internal/shared/logger"
)

//go:embed scripts/*.sql
var scripts embed.FS

// Up applies all pending migrations.
func Up(db *gorm.DB, log logger.Interface) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	goose.SetBaseFS(scripts)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	before, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if err := goose.Up(sqlDB, "scripts"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	after, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	log.Infow("database migrations applied", "from_version", before, "to_version", after)
	return nil
}

// Status logs the applied state of every known migration.
func Status(db *gorm.DB, log logger.Interface) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	goose.SetBaseFS(scripts)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Status(sqlDB, "scripts"); err != nil {
		return fmt.Errorf("failed to report migration status: %w", err)
	}
	return nil
}
