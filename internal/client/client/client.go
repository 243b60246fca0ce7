// Package client talks to the remote sync service on behalf of the local
// engine. The remote side is deliberately opaque: the engine only consumes
// the Client interface and never sees transport details.
package client

import (
	"context"
	"encoding/json"

	"binderkeeper/internal/binder"
)

// Client is the remote persistence and identity boundary. CurrentUserID
// returns an empty string for guests; in that mode the engine skips every
// other method.
type Client interface {
	Close() error

	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Logout()
	Ping(ctx context.Context) error
	CurrentUserID() string

	// Session exposes the token pair for persisting across restarts;
	// RestoreSession reinstates one.
	Session() (userID, accessToken, refreshToken string)
	RestoreSession(userID, accessToken, refreshToken string)

	FetchBinderCards(ctx context.Context, binderID string) ([]binder.CardEntry, error)
	FetchBinderPreferences(ctx context.Context, binderID string) (json.RawMessage, error)
	WriteBinderCard(ctx context.Context, binderID string, card binder.CardEntry) error
	WriteBinderPreferences(ctx context.Context, binderID string, prefs binder.Preferences) error
}
