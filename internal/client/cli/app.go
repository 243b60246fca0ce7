// Package cli implements the interactive binderkeeper client: a REPL over
// the binder and auth services, talking to the local snapshot store and,
// when reachable, the sync server.
package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"binderkeeper/internal/client/client"
	"binderkeeper/internal/client/config"
	"binderkeeper/internal/client/services"
	"binderkeeper/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	auth    services.AuthService
	binders services.BinderService
	reader  *bufio.Reader
	Mode    Mode

	activeBinder string
	activePage   int
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repos, err := client.InitDatabase(ctx, c.DatabaseDSN, logger)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerEndpointAddr)

	as := services.NewAuthService(apiClient, repos.Metadata, logger)
	bs := services.NewBinderService(apiClient, repos.Snapshots, logger)

	return &App{
		config:     c,
		auth:       as,
		binders:    bs,
		reader:     bufio.NewReader(os.Stdin),
		Mode:       ModeOffline,
		activePage: 1,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.auth.Close(ctx) }()

	if err := a.auth.RestoreSession(ctx); err == nil && a.auth.CurrentUserID() != "" {
		log.Printf("Restored session for user %s", a.auth.CurrentUserID())
	}

	go a.startOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.runREPL(ctx, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.auth.CurrentUserID() != ""
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

// startOnlineStatusWatcher probes the server periodically and flips the
// online/offline mode on transitions.
func (a *App) startOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.auth.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
