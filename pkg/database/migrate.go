package database

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"portfolio-backend/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies pending migrations embedded in the binary.
// Already-applied migrations are skipped, so it is safe on every startup.
func RunMigrations(dbURL string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, ConvertToPgx5URL(dbURL))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	return applyMigrations(m, src)
}

func applyMigrations(m *migrate.Migrate, src source.Driver) error {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Log.Info("No migrations applied yet")
	case err != nil:
		return fmt.Errorf("failed to read migration version: %w", err)
	case dirty:
		// A failed migration left the schema half applied; retry from the previous version
		target, err := previousVersion(src, version)
		if err != nil {
			return fmt.Errorf("failed to resolve version before %d: %w", version, err)
		}
		logger.Log.Warnw("Dirty migration state detected, resetting to retry", "dirtyVersion", version, "resetTo", target)
		if err := m.Force(target); err != nil {
			return fmt.Errorf("failed to reset dirty migration: %w", err)
		}
	default:
		logger.Log.Infow("Current migration version", "version", version)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Log.Info("Database is up to date, no migrations to apply")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Log.Info("Migrations applied successfully")
	return nil
}

// previousVersion returns the migration before version, or NilVersion when
// version is the first one.
func previousVersion(src source.Driver, version uint) (int, error) {
	prev, err := src.Prev(version)
	if errors.Is(err, fs.ErrNotExist) {
		return migratedb.NilVersion, nil
	}
	if err != nil {
		return 0, err
	}
	return int(prev), nil
}

// ConvertToPgx5URL rewrites postgres:// and postgresql:// URLs to the pgx5://
// scheme golang-migrate's pgx v5 driver registers.
func ConvertToPgx5URL(dbURL string) string {
	for _, scheme := range []string{"postgresql:", "postgres:"} {
		if strings.HasPrefix(dbURL, scheme) {
			return "pgx5:" + strings.TrimPrefix(dbURL, scheme)
		}
	}
	return dbURL
}
