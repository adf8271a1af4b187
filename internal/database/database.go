package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/tourbook-api/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Connect creates a database connection based on configuration using sqlx
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	driverName := "pgx"
	if cfg.IsMemory() {
		driverName = "sqlite3"
	}

	db, err := sqlx.ConnectContext(ctx, driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.IsMemory() {
		// A shared-cache memory database lives as long as one connection is
		// open, and table locks are not retried across connections.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	}
	return db, nil
}

// NewMigrator builds a migrate instance over the migration set for the
// configured dialect under root (a directory holding the postgres and
// sqlite sets).
func NewMigrator(db *sqlx.DB, cfg config.DBConfig, root string) (*migrate.Migrate, error) {
	var (
		m   *migrate.Migrate
		err error
	)

	sourcePath := cfg.MigrationsPath(root)
	if cfg.IsMemory() {
		// Reuse the open handle; a second connection would see a different in-memory database
		driver, derr := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
		if derr != nil {
			return nil, fmt.Errorf("could not create sqlite driver: %w", derr)
		}
		m, err = migrate.NewWithDatabaseInstance(sourcePath, "sqlite3", driver)
	} else {
		m, err = migrate.New(sourcePath, cfg.DSN())
	}
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies all pending migrations from root
func Migrate(db *sqlx.DB, cfg config.DBConfig, root string) error {
	m, err := NewMigrator(db, cfg, root)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
