// Package users stores account rows keyed by username.
package users

import (
	"context"

	"binderkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts a user and fills in the generated ID. A duplicate
	// username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUserName returns the account row or common.ErrorNotFound.
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
}
