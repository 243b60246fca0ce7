// Package api defines the JSON wire types shared by the HTTP client and the
// sync server. The card payload stays opaque on the wire exactly as it is in
// the domain model.
package api

import (
	"encoding/json"

	"binderkeeper/internal/binder"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CardsResponse struct {
	Cards []binder.CardEntry `json:"cards"`
}

type PreferencesResponse struct {
	Preferences json.RawMessage `json:"preferences"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
