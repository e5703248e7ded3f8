package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// KV is the durable key-value backend the bracket store persists through.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type KVStore struct {
	db *sqlx.DB
}

type kvEntry struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

const (
	getEntryQuery    = "SELECT value FROM kv_entries WHERE key = ?"
	upsertEntryQuery = `
		INSERT INTO kv_entries (key, value, updated_at) VALUES (:key, :value, :updated_at)
		ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
	`
)

func NewKVStore(db *sqlx.DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, getEntryQuery, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

// Set replaces the value in a single transaction, so a failed write keeps the
// previous value intact.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if _, err := tx.NamedExecContext(ctx, upsertEntryQuery, entry); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}

	return tx.Commit()
}
