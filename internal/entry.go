// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/larder/internal/index"
	"github.com/starford/larder/internal/sse"
	"github.com/starford/larder/internal/storage"
	"github.com/starford/larder/internal/storeserver"
)

// Run starts the content store server with the given options: it indexes the
// recipe corpus, watches it for changes and serves the store API over HTTP.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("corpus_path", cfg.Corpus.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("project", cfg.Store.Project),
		slog.String("dataset", cfg.Store.Dataset),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure corpus directory exists.
	if err := os.MkdirAll(cfg.Corpus.Path, 0o755); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}

	// Initialize corpus storage.
	provider, err := storage.NewFS(cfg.Corpus.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Initialize SQLite index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// Run initial sync.
	if err := index.Sync(db, provider, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// Mutation/corpus event stream.
	broker := sse.NewBroker()
	defer broker.Stop()

	var auth storeserver.Auth
	if cfg.Auth.AuthEnabled() {
		auth = storeserver.Auth{
			WriteTokens: cfg.Auth.WriteTokens,
			ReadTokens:  cfg.Auth.ReadTokens,
		}
	}

	srv := storeserver.New(cfg.Store.Project, cfg.Store.Dataset, auth, db, provider, broker, logger)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: srv.Router(),
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start corpus watcher with event stream callback.
	g.Go(func() error {
		err := index.Watch(gCtx, db, provider, cfg.Corpus.Path, logger, func(kind, path string) {
			broker.PublishDocumentEvent(kind, path)
		})
		if err != nil {
			logger.Warn("corpus watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
