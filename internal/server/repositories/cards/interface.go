// Package cards stores the per-user, per-binder card entries the clients
// synchronize. The card descriptor payload is opaque JSON.
package cards

import (
	"context"

	"binderkeeper/internal/binder"
)

type Repository interface {
	// ListByBinder returns all card entries for one user's binder, ordered
	// by page then slot. An unknown binder yields an empty slice.
	ListByBinder(ctx context.Context, userID, binderID string) ([]binder.CardEntry, error)

	// Upsert inserts the entry or, when (userID, binderID, card.ID) already
	// exists, replaces its payload and position.
	Upsert(ctx context.Context, userID, binderID string, card binder.CardEntry) error

	// Delete removes one entry. Deleting an absent entry is not an error.
	Delete(ctx context.Context, userID, binderID, cardID string) error
}
