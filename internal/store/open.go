package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/logboard/internal/migrations"
	"github.com/pressly/goose/v3"
)

// Supported database/sql driver names.
const (
	DriverPgx    = "pgx"
	DriverPq     = "postgres"
	DriverSQLite = "sqlite"
)

// RunMigrations applies the embedded migrations for dialect ("postgres" or
// "sqlite3") from dir. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, dir)
}

// Open connects with the given driver, migrates the schema and returns the
// matching store.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	var (
		s       *SQLStore
		dialect string
		dir     string
	)
	switch driver {
	case DriverPgx, DriverPq:
		s, dialect, dir = NewPostgresStore(db), "postgres", migrations.PostgresDir
	case DriverSQLite:
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY
		// between the pool's connections.
		db.SetMaxOpenConns(1)
		s, dialect, dir = NewSQLiteStore(db), "sqlite3", migrations.SQLiteDir
	default:
		_ = db.Close()
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := RunMigrations(ctx, db, dialect, dir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return s, nil
}
