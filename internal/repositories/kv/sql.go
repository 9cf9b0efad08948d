package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophprofile/internal/common"
	"github.com/dmitrijs2005/gophprofile/internal/dbx"
)

type queries struct {
	get    string
	set    string
	delete string
	list   string
}

var sqliteQueries = queries{
	get: `SELECT value FROM kv WHERE key = ?`,
	set: `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`,
	delete: `DELETE FROM kv WHERE key = ?`,
	list:   `SELECT key, value FROM kv`,
}

var postgresQueries = queries{
	get: `SELECT value FROM kv WHERE key = $1`,
	set: `
		INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`,
	delete: `DELETE FROM kv WHERE key = $1`,
	list:   `SELECT key, value FROM kv`,
}

// SQLRepository stores values in the kv table through a dbx.DBTX, which may
// be a *sql.DB or a *sql.Tx.
type SQLRepository struct {
	db dbx.DBTX
	q  queries
}

// NewSQLiteRepository binds a repository to a SQLite handle.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteQueries}
}

// NewPostgresRepository binds a repository to a PostgreSQL handle.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries}
}

func (r *SQLRepository) withDB(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: r.q}
}

func (r *SQLRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, r.q.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

func (r *SQLRepository) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := r.db.ExecContext(ctx, r.q.set, key, value); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, r.q.delete, key); err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

// DeleteMany removes keys in one transaction when the handle can begin one;
// on a *sql.Tx it joins the caller's transaction.
func (r *SQLRepository) DeleteMany(ctx context.Context, keys ...string) error {
	del := func(ctx context.Context, tx dbx.DBTX) error {
		repo := r.withDB(tx)
		for _, k := range keys {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	}

	if b, ok := r.db.(dbx.TxBeginner); ok {
		return dbx.WithTx(ctx, b, nil, del)
	}
	return del(ctx, r.db)
}

func (r *SQLRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, r.q.list)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv rows: %w", err)
	}

	return result, nil
}
