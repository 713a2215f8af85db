// Package app wires configuration, storage, services and transport into
// a runnable server process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/mh2des/arabic-dictionary-api/internal/adapter/postgres"
	"github.com/mh2des/arabic-dictionary-api/internal/adapter/postgres/canonical"
	"github.com/mh2des/arabic-dictionary-api/internal/config"
	"github.com/mh2des/arabic-dictionary-api/internal/service/lexicon"
	"github.com/mh2des/arabic-dictionary-api/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects
// to the database, builds the lexicon service and the REST router, then
// serves until the context is cancelled and shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	repo := canonical.New(pool, txm)
	svc := lexicon.NewService(logger, repo, cfg.Search)

	entries := rest.NewEntriesHandler(svc, logger)
	health := rest.NewHealthHandler(pool, BuildVersion())
	router := rest.NewRouter(logger, entries, health)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
