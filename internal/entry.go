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
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/guru-sync/internal/api"
	"github.com/starford/guru-sync/internal/attachment"
	"github.com/starford/guru-sync/internal/cardservice"
	"github.com/starford/guru-sync/internal/guru"
	"github.com/starford/guru-sync/internal/ingest"
	"github.com/starford/guru-sync/internal/mcpserver"
	"github.com/starford/guru-sync/internal/pipeline"
	"github.com/starford/guru-sync/internal/sink"
	"github.com/starford/guru-sync/internal/sse"
	"github.com/starford/guru-sync/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
	}
	slog.SetDefault(app.logger)
	return app, nil
}

// Run performs a sync. With sync.watch set it keeps running and re-syncs
// whenever the export file changes, until ctx is cancelled or a signal
// arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger

	logger.Info("Configuration loaded",
		slog.String("source", cfg.Sync.Source),
		slog.String("auth_mode", cfg.Guru.AuthMode),
		slog.String("sqlite_path", cfg.Output.SQLitePath),
		slog.String("vault_path", cfg.Output.VaultPath),
		slog.Bool("download_attachments", cfg.Sync.DownloadAttachments),
		slog.Bool("only_verified", cfg.Sync.OnlyVerified),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := sink.OpenSQLite(cfg.Output.SQLitePath)
	if err != nil {
		return fmt.Errorf("init sink: %w", err)
	}
	defer db.Close()

	orch, err := app.orchestrator(db)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := orch.Run(ctx); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if !cfg.Sync.Watch {
		return nil
	}
	return ingest.Watch(ctx, cfg.Sync.ExportPath, logger, func(ctx context.Context) error {
		_, err := orch.Run(ctx)
		return err
	})
}

// orchestrator wires the content API client, attachment materializer,
// pipeline and sinks for one configuration. extra sinks receive every
// record after the database and the vault.
func (a *application) orchestrator(db *sink.SQLite, extra ...sink.Sink) (*ingest.Orchestrator, error) {
	cfg, logger := a.config, a.logger

	client := guru.NewClient(guru.AuthHeader(cfg.Guru.Credentials()),
		guru.WithBaseURL(cfg.Guru.BaseURL),
		guru.WithTeam(cfg.Guru.TeamName),
		guru.WithTimeout(cfg.Guru.Timeout),
		guru.WithLogger(logger),
	)

	pipeOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	if cfg.Sync.DownloadAttachments {
		store, err := storage.NewFS(cfg.Sync.AttachmentDir)
		if err != nil {
			return nil, fmt.Errorf("init attachment storage: %w", err)
		}
		m := attachment.New(client, store,
			attachment.WithLogger(logger),
			attachment.WithPublicPrefix(cfg.Sync.PublicPrefix),
		)
		pipeOpts = append(pipeOpts, pipeline.WithAttachments(m, client.Header()))
	}

	sinks := sink.Multi{db}
	if cfg.Output.VaultPath != "" {
		vaultStore, err := storage.NewFS(cfg.Output.VaultPath)
		if err != nil {
			return nil, fmt.Errorf("init vault storage: %w", err)
		}
		sinks = append(sinks, sink.NewVault(vaultStore, logger))
	}
	sinks = append(sinks, extra...)

	var src ingest.API
	if cfg.Sync.Source == ingest.SourceAPI {
		src = client
	}

	return ingest.New(src, pipeline.New(pipeOpts...), sinks, ingest.Options{
		AuthMode:          cfg.Guru.AuthMode,
		Source:            cfg.Sync.Source,
		ExportPath:        cfg.Sync.ExportPath,
		OnlyVerified:      cfg.Sync.OnlyVerified,
		FetchBoards:       cfg.Sync.FetchBoards,
		FetchCollections:  cfg.Sync.FetchCollections,
		ParentConcurrency: cfg.Sync.ParentConcurrency,
	}, logger), nil
}

// Serve starts the preview HTTP server over the synced records. With
// sync.watch set it syncs once and then runs the export watcher alongside
// the server.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.Output.SQLitePath),
		slog.String("attachment_dir", cfg.Sync.AttachmentDir),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := sink.OpenSQLite(cfg.Output.SQLitePath)
	if err != nil {
		return fmt.Errorf("init sink: %w", err)
	}
	defer db.Close()

	attachStore, err := storage.NewFS(cfg.Sync.AttachmentDir)
	if err != nil {
		return fmt.Errorf("init attachment storage: %w", err)
	}

	svc := cardservice.NewService(db)
	authEnabled := cfg.Auth.AuthEnabled()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(svc, authEnabled, cfg.Auth.Token)
	apiRouter.Get("/events", broker.ServeHTTP)
	r.Mount("/api", apiRouter)
	r.Mount(strings.TrimRight(cfg.Sync.PublicPrefix, "/"),
		api.NewAttachmentRouter(api.NewAttachmentHandler(attachStore), authEnabled, cfg.Auth.Token))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Sync.Watch {
		orch, err := app.orchestrator(db, broker)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return ingest.SyncAndWatch(gCtx, cfg.Sync.ExportPath, logger, func(ctx context.Context) error {
				sum, err := orch.Run(ctx)
				if err != nil {
					return err
				}
				broker.Publish(sse.Event{Type: sse.EventSyncFinished, Data: sum})
				return nil
			})
		})
	}

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
		defer signal.Stop(quit)

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

		return errServerStopped
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errServerStopped) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errServerStopped cancels the rest of the group once the server is down.
var errServerStopped = errors.New("server stopped")

// ServeMCP exposes the synced records as MCP tools over stdio.
func ServeMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	cfg := app.config

	db, err := sink.OpenSQLite(cfg.Output.SQLitePath)
	if err != nil {
		return fmt.Errorf("init sink: %w", err)
	}
	defer db.Close()

	app.logger.Info("MCP server starting", slog.String("sqlite_path", cfg.Output.SQLitePath))
	return mcpserver.New(cardservice.NewService(db)).ServeStdio()
}
