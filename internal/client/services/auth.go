package services

import (
	"context"
	"encoding/json"
	"fmt"

	"binderkeeper/internal/client/client"
	"binderkeeper/internal/client/repositories/metadata"
	"binderkeeper/internal/logging"
)

// AuthService manages the user session: register/login against the sync
// server, persisting the session locally so a restart stays logged in, and
// dropping back to guest mode on logout.
type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	RestoreSession(ctx context.Context) error
	CurrentUserID() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type session struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authService struct {
	client client.Client
	meta   metadata.Repository
	log    logging.Logger
}

func NewAuthService(c client.Client, meta metadata.Repository, log logging.Logger) AuthService {
	return &authService{client: c, meta: meta, log: log.With("module", "auth")}
}

func (a *authService) Register(ctx context.Context, username, password string) error {
	if err := a.client.Register(ctx, username, password); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	if _, err := a.client.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	userID, access, refresh := a.client.Session()
	b, err := json.Marshal(session{UserID: userID, AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return err
	}
	if err := a.meta.Set(ctx, metadata.KeySession, b); err != nil {
		// login still succeeded; the session just will not survive a restart
		a.log.Warn(ctx, "failed to persist session", "error", err.Error())
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.Logout()
	if err := a.meta.Delete(ctx, metadata.KeySession); err != nil {
		return fmt.Errorf("failed to drop saved session: %w", err)
	}
	return nil
}

// RestoreSession reinstates a saved session, if any. Missing or unreadable
// session data just leaves the client in guest mode.
func (a *authService) RestoreSession(ctx context.Context) error {
	b, err := a.meta.Get(ctx, metadata.KeySession)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}

	var s session
	if err := json.Unmarshal(b, &s); err != nil {
		a.log.Warn(ctx, "saved session unreadable, staying guest", "error", err.Error())
		return nil
	}
	a.client.RestoreSession(s.UserID, s.AccessToken, s.RefreshToken)
	return nil
}

func (a *authService) CurrentUserID() string {
	return a.client.CurrentUserID()
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
