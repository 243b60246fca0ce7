package snapshots

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"binderkeeper/internal/binder"
	"binderkeeper/internal/logging"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE snapshots (
  binder_id TEXT PRIMARY KEY,
  version TEXT NOT NULL,
  payload TEXT NOT NULL,
  last_modified TEXT NOT NULL
);
CREATE TABLE sync_status (
  binder_id TEXT PRIMARY KEY,
  needs_sync INTEGER NOT NULL DEFAULT 0,
  last_modified TEXT,
  last_synced TEXT
);
`)
	require.NoError(t, err)
	return db
}

func newRepo(t *testing.T) (*SQLiteRepository, *sql.DB) {
	t.Helper()
	db := setupDB(t)
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewSQLiteRepository(db, log), db
}

func TestRead_Absent(t *testing.T) {
	r, _ := newRepo(t)

	s, err := r.Read(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	snap := binder.NewSnapshot("b1", []binder.CardEntry{
		{ID: "c1", Position: binder.Position{Page: 1, Slot: 1}},
	}, binder.DefaultPreferences())

	require.NoError(t, r.Write(ctx, snap))

	got, err := r.Read(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b1", got.BinderID)
	assert.Equal(t, binder.SchemaVersion, got.Version)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, "c1", got.Cards[0].ID)
	assert.False(t, got.LastModified.IsZero())
}

func TestWrite_MarksDirty(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	snap := binder.NewSnapshot("b1", nil, binder.DefaultPreferences())
	require.NoError(t, r.Write(ctx, snap))

	status, err := r.ReadSyncStatus(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, status.NeedsSync)
	require.NotNil(t, status.LastModified)
}

func TestRead_StaleVersionDiscarded(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()

	_, err := db.Exec(
		`INSERT INTO snapshots (binder_id, version, payload, last_modified) VALUES (?, ?, ?, ?)`,
		"b1", "1", `{"binderId":"b1","cards":[]}`, time.Now().UTC().Format(time.RFC3339Nano))
	require.NoError(t, err)

	got, err := r.Read(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, got, "stale schema version must read as absent")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&n))
	assert.Equal(t, 0, n, "stale row must be cleared")
}

func TestRead_CorruptPayloadDiscarded(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()

	_, err := db.Exec(
		`INSERT INTO snapshots (binder_id, version, payload, last_modified) VALUES (?, ?, ?, ?)`,
		"b1", binder.SchemaVersion, `{definitely not json`, time.Now().UTC().Format(time.RFC3339Nano))
	require.NoError(t, err)

	got, err := r.Read(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClear_RemovesBothRecords(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Write(ctx, binder.NewSnapshot("b1", nil, binder.DefaultPreferences())))
	require.NoError(t, r.Clear(ctx, "b1"))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&n))
	assert.Equal(t, 0, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sync_status`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestSyncStatus_DefaultAndRoundTrip(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	status, err := r.ReadSyncStatus(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, status.NeedsSync)
	assert.Nil(t, status.LastModified)
	assert.Nil(t, status.LastSynced)

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, r.WriteSyncStatus(ctx, "b1", binder.SyncStatus{
		NeedsSync:  false,
		LastSynced: &now,
	}))

	status, err = r.ReadSyncStatus(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, status.NeedsSync)
	require.NotNil(t, status.LastSynced)
	assert.True(t, status.LastSynced.Equal(now))
	assert.Nil(t, status.LastModified)
}
