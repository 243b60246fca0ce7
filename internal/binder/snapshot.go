package binder

import "time"

// SchemaVersion tags every persisted snapshot. A stored snapshot carrying a
// different version is discarded on read and rebuilt from remote data instead
// of being interpreted with a stale shape.
const SchemaVersion = "2"

// Snapshot is the complete local copy of one binder: its cards and
// preferences, persisted as a single unit.
type Snapshot struct {
	Version      string      `json:"version"`
	BinderID     string      `json:"binderId"`
	Cards        []CardEntry `json:"cards"`
	Preferences  Preferences `json:"preferences"`
	LastModified time.Time   `json:"lastModified"`
}

// NewSnapshot creates a snapshot for binderID at the current schema version.
func NewSnapshot(binderID string, cards []CardEntry, prefs Preferences) *Snapshot {
	return &Snapshot{
		Version:     SchemaVersion,
		BinderID:    binderID,
		Cards:       cards,
		Preferences: prefs,
	}
}

// SyncStatus tracks whether a binder's local snapshot has edits that were not
// yet confirmed by the remote service. It is a separate record from the
// snapshot itself.
type SyncStatus struct {
	NeedsSync    bool       `json:"needsSync"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	LastSynced   *time.Time `json:"lastSynced,omitempty"`
}
