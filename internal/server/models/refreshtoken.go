package models

import "time"

// RefreshToken is a server-stored refresh token with its expiry. Tokens are
// rotated on every refresh, so a row lives for at most one full lifetime.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
