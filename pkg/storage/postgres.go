package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Schema creates the single key/value table used by PostgresStorage.
const Schema = `CREATE TABLE IF NOT EXISTS kv_store (
    key        TEXT PRIMARY KEY,
    value      BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type kvRow struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PostgresStorage keeps each blob as one row of kv_store.
type PostgresStorage struct {
	db *sqlx.DB
}

// NewPostgresStorage constructs the backend. Call EnsureSchema once at startup.
func NewPostgresStorage(db *sqlx.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// EnsureSchema creates the kv_store table when missing.
func (s *PostgresStorage) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure kv_store schema: %w", err)
	}
	return nil
}

// Get fetches the blob stored under key.
func (s *PostgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT key, value, updated_at FROM kv_store WHERE key = $1`
	var row kvRow
	if err := s.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select blob %s: %w", key, err)
	}
	return row.Value, nil
}

// Put upserts the blob stored under key.
func (s *PostgresStorage) Put(ctx context.Context, key string, value []byte) error {
	const query = `INSERT INTO kv_store (key, value, updated_at)
VALUES (:key, :value, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	row := kvRow{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert blob %s: %w", key, err)
	}
	return nil
}
