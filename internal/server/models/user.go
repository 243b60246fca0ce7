// Package models defines server-side rows persisted in PostgreSQL.
package models

import "time"

// User is an account row. PasswordHash is the argon2id digest of the
// password with Salt; the plaintext never reaches storage.
type User struct {
	ID           string
	UserName     string
	Salt         []byte
	PasswordHash []byte
	CreatedAt    time.Time
}
