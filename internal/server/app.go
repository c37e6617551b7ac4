// Package server wires the account service together: configuration,
// Postgres, Redis, SMTP, S3 and the HTTP endpoint, with graceful shutdown
// on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avolkov/accountsvc/internal/logging"
	"github.com/avolkov/accountsvc/internal/server/config"
	"github.com/avolkov/accountsvc/internal/server/httpapi"
	"github.com/avolkov/accountsvc/internal/server/mail"
	"github.com/avolkov/accountsvc/internal/server/media"
	"github.com/avolkov/accountsvc/internal/server/otpstore"
	"github.com/avolkov/accountsvc/internal/server/password"
	"github.com/avolkov/accountsvc/internal/server/repositories/repomanager"
	"github.com/avolkov/accountsvc/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	server *http.Server
	db     io.Closer
}

func NewApp(cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := repomanager.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	codes := otpstore.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))

	notifier, err := mail.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	if err != nil {
		return nil, fmt.Errorf("mail init error: %w", err)
	}

	avatars := media.NewS3Store(cfg.S3RootUser, cfg.S3RootPassword, cfg.S3Bucket, cfg.S3Region, cfg.S3BaseEndpoint)

	hasher := password.NewHasher(cfg.BcryptCost)

	svc := services.NewUserService(db, m, codes, notifier, avatars, hasher, cfg)

	handler := httpapi.NewHandler(svc, []byte(cfg.SecretKey), logger)
	srv := &http.Server{
		Addr:    cfg.EndpointAddrHTTP,
		Handler: httpapi.NewRouter(handler),
	}

	return &App{config: cfg, logger: logger, server: srv, db: db}, nil
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.server.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return app.db.Close()
}
