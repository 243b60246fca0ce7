package snapshots

import (
	"context"

	"binderkeeper/internal/binder"
)

// Repository is the binder-scoped snapshot store. It owns two records per
// binder id: the snapshot itself and its sync status.
type Repository interface {
	// Read returns the stored snapshot, or (nil, nil) when none exists.
	// A snapshot persisted under a different schema version, or one whose
	// payload no longer unmarshals, is cleared and reported as absent rather
	// than returned in a stale shape.
	Read(ctx context.Context, binderID string) (*binder.Snapshot, error)

	// Write persists the snapshot, stamping LastModified. Every write is a
	// local edit: the binder's sync status is set dirty in the same call.
	Write(ctx context.Context, snapshot *binder.Snapshot) error

	// Clear removes both the snapshot and the sync-status record, discarding
	// local edits in favor of a future remote copy.
	Clear(ctx context.Context, binderID string) error

	// ReadSyncStatus returns the binder's sync status, zero value when absent.
	ReadSyncStatus(ctx context.Context, binderID string) (binder.SyncStatus, error)

	// WriteSyncStatus replaces the binder's sync status.
	WriteSyncStatus(ctx context.Context, binderID string, status binder.SyncStatus) error
}
