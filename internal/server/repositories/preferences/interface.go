// Package preferences stores the per-binder display preferences blob. The
// server treats it as opaque JSON; merging happens on the client.
package preferences

import (
	"context"
	"encoding/json"
)

type Repository interface {
	// Get returns the stored payload or common.ErrorNotFound.
	Get(ctx context.Context, userID, binderID string) (json.RawMessage, error)

	// Upsert stores the payload, replacing any previous value.
	Upsert(ctx context.Context, userID, binderID string, payload json.RawMessage) error
}
