// Package snapshots implements the local snapshot store: one versioned
// snapshot record and one sync-status record per binder, kept in the client's
// SQLite database. Everything the client knows about a binder between syncs
// lives here.
package snapshots
