// Package server assembles the sync server: it opens the database, applies
// migrations, wires the services, and runs the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"binderkeeper/internal/logging"
	"binderkeeper/internal/server/config"
	"binderkeeper/internal/server/httpapi"
	"binderkeeper/internal/server/repositories/repomanager"
	"binderkeeper/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	users   *services.UserService
	binders *services.BinderService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))).
		With("module", "server")

	db, err := openDatabase(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		users:   services.NewUserService(db, manager, cfg),
		binders: services.NewBinderService(db, manager),
	}, nil
}

// openDatabase connects and pings with exponential backoff, so the server
// survives starting before the database does.
func openDatabase(ctx context.Context, dsn string, logger logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			logger.Warn(ctx, "Database not ready, retrying...", "error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Run serves the HTTP API until the context is cancelled or an OS signal
// arrives, then closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	srv := httpapi.NewServer(app.config.EndpointAddr, app.logger,
		app.users, app.binders, app.config.SecretKey)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})

	err := g.Wait()
	if closeErr := app.db.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
