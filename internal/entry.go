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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/pinboard/internal/api"
	"github.com/starford/pinboard/internal/apiclient"
	"github.com/starford/pinboard/internal/mcpserver"
	"github.com/starford/pinboard/internal/mirror"
	"github.com/starford/pinboard/internal/models"
	"github.com/starford/pinboard/internal/noteservice"
	"github.com/starford/pinboard/internal/orchestrator"
	"github.com/starford/pinboard/internal/seed"
	"github.com/starford/pinboard/internal/sse"
)

// Run starts the mock notes service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts, os.Stdout)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("latency", cfg.Mock.Latency.String()),
		slog.String("seed_file", cfg.Mock.SeedFile),
		slog.String("log_level", cfg.App.LogLevel.String()))

	notes, err := seed.LoadOrDefault(cfg.Mock.SeedFile)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker(cfg.Mock.EventThrottle)
	defer broker.Close()

	svc := noteservice.NewService(notes, noteservice.WithChangeHook(broker.PublishNoteEvent))
	logger.Info("Notes seeded", slog.Int("count", svc.Len()))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: newRouter(svc, cfg.Mock.Latency, broker),
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Hot-reload the seed file.
	if cfg.Mock.SeedFile != "" {
		g.Go(func() error {
			err := seed.Watch(gCtx, cfg.Mock.SeedFile, logger, func(notes []models.Note) {
				svc.Reset(notes)
				broker.Publish(sse.Event{Type: sse.TypeNotesChanged, Data: map[string]int{"count": len(notes)}})
			})
			if err != nil {
				logger.Warn("seed watcher stopped", slog.String("error", err.Error()))
			}
			return nil
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
		waitForShutdown(gCtx, logger)

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

func newRouter(svc *noteservice.Service, latency time.Duration, events http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	// Health check endpoints.
	r.Get("/health/live", healthOK)
	r.Get("/health/ready", healthOK)

	// Mount API routes under /api.
	r.Mount("/api", api.NewRouter(svc, latency, events))

	return r
}

func healthOK(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// RunMCP serves the note tools on stdio, backed by an orchestrator talking
// to the notes service at cfg.Client.BaseURL.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts, os.Stderr)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// stdout carries the protocol.
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("base_url", cfg.Client.BaseURL),
		slog.String("timeout", cfg.Client.Timeout.String()),
		slog.Bool("mirror", cfg.Mirror.Enabled))

	client := apiclient.New(cfg.Client.BaseURL, apiclient.WithTimeout(cfg.Client.Timeout))

	orchOpts := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithDebounce(cfg.Client.Debounce),
	}
	if cfg.Mirror.Enabled {
		db, err := mirror.Open(cfg.Mirror.Path)
		if err != nil {
			return fmt.Errorf("open mirror: %w", err)
		}
		defer db.Close()
		orchOpts = append(orchOpts, orchestrator.WithMirror(db))
	}

	o := orchestrator.New(client, orchOpts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return o.Run(gCtx)
	})

	// ServeStdio installs its own signal handling and returns on EOF.
	g.Go(func() error {
		defer cancel()
		if err := mcpserver.New(o).ServeStdio(); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		waitForShutdown(gCtx, logger)
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("MCP server stopped")
	return nil
}

func waitForShutdown(ctx context.Context, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled, initiating shutdown")
	}
}
