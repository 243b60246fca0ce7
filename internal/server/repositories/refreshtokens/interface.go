// Package refreshtokens stores server-side refresh tokens for the
// authentication flow.
package refreshtokens

import (
	"context"
	"time"

	"binderkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts a token for userID expiring after validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns the token row or common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
