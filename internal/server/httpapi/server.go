// Package httpapi exposes the sync server's JSON API: account endpoints and
// the per-binder card and preferences resources the clients synchronize.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"binderkeeper/internal/binder"
	"binderkeeper/internal/logging"
	"binderkeeper/internal/server/models"
	"binderkeeper/internal/server/services"
)

// UserProvider is the slice of UserService the handlers need.
type UserProvider interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// BinderProvider is the slice of BinderService the handlers need.
type BinderProvider interface {
	Cards(ctx context.Context, userID, binderID string) ([]binder.CardEntry, error)
	SaveCard(ctx context.Context, userID, binderID string, card binder.CardEntry) error
	DeleteCard(ctx context.Context, userID, binderID, cardID string) error
	Preferences(ctx context.Context, userID, binderID string) (json.RawMessage, error)
	SavePreferences(ctx context.Context, userID, binderID string, payload json.RawMessage) error
}

// Server serves the JSON API over plain HTTP.
type Server struct {
	address   string
	logger    logging.Logger
	users     UserProvider
	binders   BinderProvider
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, us UserProvider, bs BinderProvider, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		binders:   bs,
		jwtSecret: []byte(secretKey),
	}
}

// Handler builds the route table. Split out from Run so tests can drive the
// mux through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/ping", s.handlePing)

	mux.Handle("GET /api/binders/{binderID}/cards", s.requireAuth(s.handleGetCards))
	mux.Handle("PUT /api/binders/{binderID}/cards/{cardID}", s.requireAuth(s.handlePutCard))
	mux.Handle("DELETE /api/binders/{binderID}/cards/{cardID}", s.requireAuth(s.handleDeleteCard))
	mux.Handle("GET /api/binders/{binderID}/preferences", s.requireAuth(s.handleGetPreferences))
	mux.Handle("PUT /api/binders/{binderID}/preferences", s.requireAuth(s.handlePutPreferences))

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
