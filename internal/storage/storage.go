// Package storage opens the configured key-value backend and applies its
// schema migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/gophprofile/internal/common"
	"github.com/dmitrijs2005/gophprofile/internal/migrations"
	"github.com/dmitrijs2005/gophprofile/internal/repositories/kv"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
	DriverMemory   = "memory"
)

// Store owns the database handle (if any) and the repository built on it.
type Store struct {
	db   *sql.DB
	repo kv.Repository
}

func (s *Store) Repository() kv.Repository { return s.repo }

// DB returns the underlying handle, or nil for the memory driver.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// RunMigrations applies the embedded migrations for driver to db.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	var (
		fsys    fs.FS
		dialect string
		err     error
	)

	switch driver {
	case DriverSQLite:
		fsys, err = fs.Sub(migrations.SQLite, "sqlite")
		dialect = "sqlite3"
	case DriverPostgres:
		fsys, err = fs.Sub(migrations.Postgres, "postgres")
		dialect = "pgx"
	default:
		return fmt.Errorf("%w: %q", common.ErrUnsupportedDriver, driver)
	}
	if err != nil {
		return err
	}

	goose.SetBaseFS(fsys)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Open connects to the backend named by driver, migrates it and returns the
// Store. The dsn is ignored for the memory driver.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverMemory:
		return &Store{repo: kv.NewInMemoryRepository()}, nil
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// a single connection serialises writers and keeps :memory: databases coherent
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := RunMigrations(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}

	var repo kv.Repository
	if driver == DriverSQLite {
		repo = kv.NewSQLiteRepository(db)
	} else {
		repo = kv.NewPostgresRepository(db)
	}

	return &Store{db: db, repo: repo}, nil
}
