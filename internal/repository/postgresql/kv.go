package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/employee-directory/internal/pkg/database"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/storage"
	"github.com/jackc/pgx/v5"
)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv_entries (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

const createKVIndex = `CREATE INDEX IF NOT EXISTS idx_kv_entries_updated_at ON kv_entries (updated_at)`

type kvStorageImpl struct {
	db *database.DB
}

// NewKVStorage returns a storage.Storage backed by the kv_entries table, creating it if needed.
func NewKVStorage(ctx context.Context, db *database.DB) (storage.Storage, error) {
	err := WithTransaction(ctx, db, func(ctx context.Context) error {
		q := GetQuerier(ctx, db)
		if _, err := q.Exec(ctx, createKVTable); err != nil {
			return err
		}
		_, err := q.Exec(ctx, createKVIndex)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kv_entries table: %w", err)
	}
	return &kvStorageImpl{db: db}, nil
}

// Get implements storage.Storage.
func (s *kvStorageImpl) Get(ctx context.Context, key string) ([]byte, error) {
	q := GetQuerier(ctx, s.db)

	var value []byte
	err := q.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, nil
}

// Set implements storage.Storage.
func (s *kvStorageImpl) Set(ctx context.Context, key string, value []byte) error {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}
