package store

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/silat-bracket/internal/db"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	// every pooled connection would otherwise get its own empty database
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")

	t.Cleanup(func() { database.Close() })
	return database
}

func TestKVStore(t *testing.T) {
	database := setupTestDB(t)
	kv := NewKVStore(database)
	ctx := context.Background()

	_, found, err := kv.Get(ctx, Namespace)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, Namespace, `[]`))
	value, found, err := kv.Get(ctx, Namespace)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, value)

	require.NoError(t, kv.Set(ctx, Namespace, `[{"id":"b1"}]`))
	value, _, err = kv.Get(ctx, Namespace)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"b1"}]`, value)

	var count int
	require.NoError(t, database.Get(&count, "SELECT COUNT(*) FROM kv_entries"))
	assert.Equal(t, 1, count)
}

func TestBracketStoreOverSQLite(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	s := openTestStore(t, NewKVStore(database))
	created, err := s.Create(ctx, CreateParams{Name: "Kejuaraan SQLite", Participants: testParticipants(4)})
	require.NoError(t, err)

	reopened := openTestStore(t, NewKVStore(database))
	got, err := reopened.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Rounds, got.Rounds)
	assert.Equal(t, []string{"b1", "b2", "b3", created.ID}, ids(reopened.List()))
}
