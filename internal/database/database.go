package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/geotemp-api/internal/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Connect creates a database connection based on configuration using sqlx
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	var driverName string
	dsn := cfg.DSN()

	if cfg.IsMemory() {
		driverName = "sqlite3"
	} else {
		driverName = "pgx"
	}

	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// A shared-cache in-memory SQLite database reports SQLITE_LOCKED instead of
	// waiting when two connections write at once, so writers go through one connection.
	if cfg.IsMemory() {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate applies every pending migration found under root (which holds the
// sqlite/ and postgres/ source directories) to db.
func Migrate(db *sqlx.DB, cfg config.DBConfig, root string) error {
	m, err := NewMigrator(db, cfg, root)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// NewMigrator builds a migrate instance bound to an existing connection.
// The driver instance is used directly to avoid DSN parsing issues with in-memory SQLite.
func NewMigrator(db *sqlx.DB, cfg config.DBConfig, root string) (*migrate.Migrate, error) {
	var (
		driver     database.Driver
		driverName string
		err        error
	)

	if cfg.IsMemory() {
		driverName = "sqlite3"
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	} else {
		driverName = "pgx5"
		driver, err = pgxmigrate.WithInstance(db.DB, &pgxmigrate.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s migration driver: %w", driverName, err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath(root), driverName, driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}
