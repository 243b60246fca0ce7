package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"binderkeeper/internal/binder"
	"binderkeeper/internal/client/repositories/snapshots"
	"binderkeeper/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupRepo(t *testing.T) (*snapshots.SQLiteRepository, *sql.DB) {
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
	return snapshots.NewSQLiteRepository(db, testLogger()), db
}

// fakeClient is a scripted remote for service tests. The zero value is a
// guest client.
type fakeClient struct {
	userID   string
	cards    []binder.CardEntry
	prefs    json.RawMessage
	fetchErr error
	writeErr error

	writtenCards []binder.CardEntry
	writtenPrefs []binder.Preferences
}

func (f *fakeClient) Close() error        { return nil }
func (f *fakeClient) Logout()             { f.userID = "" }
func (f *fakeClient) CurrentUserID() string { return f.userID }

func (f *fakeClient) Register(ctx context.Context, username, password string) error { return nil }

func (f *fakeClient) Login(ctx context.Context, username, password string) (string, error) {
	if f.userID == "" {
		f.userID = "user-" + username
	}
	return f.userID, nil
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) Session() (string, string, string) { return f.userID, "at", "rt" }
func (f *fakeClient) RestoreSession(userID, accessToken, refreshToken string) {
	f.userID = userID
}

func (f *fakeClient) FetchBinderCards(ctx context.Context, binderID string) ([]binder.CardEntry, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.cards, nil
}

func (f *fakeClient) FetchBinderPreferences(ctx context.Context, binderID string) (json.RawMessage, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.prefs, nil
}

func (f *fakeClient) WriteBinderCard(ctx context.Context, binderID string, card binder.CardEntry) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writtenCards = append(f.writtenCards, card)
	return nil
}

func (f *fakeClient) WriteBinderPreferences(ctx context.Context, binderID string, prefs binder.Preferences) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writtenPrefs = append(f.writtenPrefs, prefs)
	return nil
}

var errRemoteDown = errors.New("remote down")

func cardAt(id string, page, slot int) binder.CardEntry {
	return binder.CardEntry{ID: id, Position: binder.Position{Page: page, Slot: slot}}
}
