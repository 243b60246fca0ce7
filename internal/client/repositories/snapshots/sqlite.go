package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"binderkeeper/internal/binder"
	"binderkeeper/internal/dbx"
	"binderkeeper/internal/logging"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx). Snapshot payloads are stored as JSON text next to their schema
// version tag so stale shapes can be detected without unmarshalling.
type SQLiteRepository struct {
	db  dbx.DBTX
	log logging.Logger
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX, log logging.Logger) *SQLiteRepository {
	return &SQLiteRepository{db: db, log: log.With("module", "snapshots")}
}

func (r *SQLiteRepository) Read(ctx context.Context, binderID string) (*binder.Snapshot, error) {
	var version, payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT version, payload FROM snapshots WHERE binder_id = ?`, binderID).
		Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot[%s]: %w", binderID, err)
	}

	if version != binder.SchemaVersion {
		r.log.Warn(ctx, "discarding snapshot with stale schema version",
			"binder_id", binderID, "stored_version", version)
		if err := r.Clear(ctx, binderID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var s binder.Snapshot
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		r.log.Warn(ctx, "discarding corrupt snapshot payload",
			"binder_id", binderID, "error", err.Error())
		if err := r.Clear(ctx, binderID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &s, nil
}

func (r *SQLiteRepository) Write(ctx context.Context, snapshot *binder.Snapshot) error {
	now := time.Now().UTC()
	snapshot.Version = binder.SchemaVersion
	snapshot.LastModified = now

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot[%s]: %w", snapshot.BinderID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (binder_id, version, payload, last_modified)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(binder_id) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			last_modified = excluded.last_modified
	`, snapshot.BinderID, snapshot.Version, string(payload), now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write snapshot[%s]: %w", snapshot.BinderID, err)
	}

	// a direct snapshot write is by definition an unsynced local edit
	return r.WriteSyncStatus(ctx, snapshot.BinderID, binder.SyncStatus{
		NeedsSync:    true,
		LastModified: &now,
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context, binderID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE binder_id = ?`, binderID); err != nil {
		return fmt.Errorf("failed to clear snapshot[%s]: %w", binderID, err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sync_status WHERE binder_id = ?`, binderID); err != nil {
		return fmt.Errorf("failed to clear sync status[%s]: %w", binderID, err)
	}
	return nil
}

func (r *SQLiteRepository) ReadSyncStatus(ctx context.Context, binderID string) (binder.SyncStatus, error) {
	var needsSync bool
	var lastModified, lastSynced sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT needs_sync, last_modified, last_synced FROM sync_status WHERE binder_id = ?`, binderID).
		Scan(&needsSync, &lastModified, &lastSynced)
	if errors.Is(err, sql.ErrNoRows) {
		return binder.SyncStatus{}, nil
	}
	if err != nil {
		return binder.SyncStatus{}, fmt.Errorf("failed to read sync status[%s]: %w", binderID, err)
	}

	status := binder.SyncStatus{NeedsSync: needsSync}
	if ts, ok := parseTime(lastModified); ok {
		status.LastModified = &ts
	}
	if ts, ok := parseTime(lastSynced); ok {
		status.LastSynced = &ts
	}
	return status, nil
}

func (r *SQLiteRepository) WriteSyncStatus(ctx context.Context, binderID string, status binder.SyncStatus) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_status (binder_id, needs_sync, last_modified, last_synced)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(binder_id) DO UPDATE SET
			needs_sync = excluded.needs_sync,
			last_modified = excluded.last_modified,
			last_synced = excluded.last_synced
	`, binderID, status.NeedsSync, formatTime(status.LastModified), formatTime(status.LastSynced))
	if err != nil {
		return fmt.Errorf("failed to write sync status[%s]: %w", binderID, err)
	}
	return nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s sql.NullString) (time.Time, bool) {
	if !s.Valid || s.String == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
