package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var ledgerFiles embed.FS

// newMigrator binds the embedded ledger migrations to db.
func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(ledgerFiles, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "ledger_schema_migrations"})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}

// RunMigrations brings the ledger schema up to date.
// With autoMigrate false it only reports the current version, so operators can
// apply migrations out of band.
func RunMigrations(db *sql.DB, autoMigrate bool) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read ledger schema version: %w", err)
	}

	if dirty {
		slog.Warn("[Migrations] Ledger schema is dirty, forcing current version", "version", version)
		// Only one baseline migration exists, so forcing the current version is safe.
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to clear dirty ledger schema at version %d: %w", version, err)
		}
	}

	if !autoMigrate {
		slog.Info("[Migrations] Auto-migrate disabled", "version", version, "dirty", dirty)
		return nil
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("[Migrations] Ledger schema up to date", "version", version)
		return nil
	case err != nil:
		return fmt.Errorf("failed to apply ledger migrations: %w", err)
	}

	applied, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read migrated ledger schema version: %w", err)
	}
	slog.Info("[Migrations] Ledger schema migrated", "from", version, "to", applied)
	return nil
}

// Reset drops the ledger schema. Used by integration tests only.
func Reset(db *sql.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to reset ledger schema: %w", err)
	}
	return nil
}
