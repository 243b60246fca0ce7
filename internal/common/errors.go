// Package common defines shared constants and sentinel errors used across
// client and server layers of binderkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorAlreadyExists = errors.New("already exists")

	// Binder addressing errors. These indicate caller bugs and are never
	// retried.
	ErrInvalidSlot     = errors.New("invalid slot number")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidGridSize = errors.New("invalid grid size")

	// Mutation errors.
	ErrSlotOccupied = errors.New("slot is already occupied")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
