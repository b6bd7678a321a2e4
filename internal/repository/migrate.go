package repository

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/nikolayk812/cartprice/internal/db"
)

const migrationsDir = "migrations"

// MigrateUp applies every embedded migration not yet applied to the database at connStr.
func MigrateUp(connStr string) error {
	m, err := newMigrate(connStr)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("m.Up: %w", err)
	}

	return nil
}

// MigrateDown reverts every applied migration.
func MigrateDown(connStr string) error {
	m, err := newMigrate(connStr)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("m.Down: %w", err)
	}

	return nil
}

func newMigrate(connStr string) (*migrate.Migrate, error) {
	src, err := iofs.New(db.Migrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("iofs.New: %w", err)
	}

	dbURL, err := toMigrateURL(connStr)
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, fmt.Errorf("migrate.NewWithSourceInstance: %w", err)
	}

	return m, nil
}

// toMigrateURL rewrites a postgres:// connection string to the scheme of the pgx/v5 migrate driver.
func toMigrateURL(connStr string) (string, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return "", fmt.Errorf("url.Parse: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
	default:
		return "", fmt.Errorf("unsupported scheme[%s]", u.Scheme)
	}

	u.Scheme = "pgx5"
	return u.String(), nil
}

func closeMigrate(m *migrate.Migrate) {
	// source and database close errors carry nothing actionable after the migration ran
	_, _ = m.Close()
}
