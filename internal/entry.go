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

	"github.com/starford/goldstar/internal/api"
	"github.com/starford/goldstar/internal/ledger"
	"github.com/starford/goldstar/internal/logging"
	"github.com/starford/goldstar/internal/metrics"
	"github.com/starford/goldstar/internal/sse"
	"github.com/starford/goldstar/internal/storage"
)

// runtime is the set of components shared by every command.
type runtime struct {
	logger   *slog.Logger
	provider storage.Provider
	fs       *storage.FS // non-nil only for the file backend
	store    *ledger.Store
	metrics  *metrics.Metrics
	broker   *sse.Broker
}

// bootstrap opens the configured backend and loads the ledger. When live is
// set, metrics and the SSE broker are attached as ledger listeners.
func bootstrap(app *application, live bool) (*runtime, error) {
	cfg := app.config

	logger := logging.New(app.logOut, cfg.App.LogLevel, cfg.App.LogFormat)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.String("storage_path", cfg.Storage.Path),
		slog.String("storage_key", cfg.Storage.Key),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt := &runtime{logger: logger}

	switch cfg.Storage.Backend {
	case BackendFile:
		if err := os.MkdirAll(cfg.Storage.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		fs, err := storage.NewFS(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		rt.fs, rt.provider = fs, fs
	case BackendSQLite:
		db, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		rt.provider = db
	case BackendMemory:
		rt.provider = storage.NewMemory()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	opts := []ledger.Option{
		ledger.WithKey(cfg.Storage.Key),
		ledger.WithLogger(logger),
	}
	if live {
		rt.metrics = metrics.New()
		// The stats callback reads the store, which is assigned below before
		// any ledger event can reach the broker.
		rt.broker = sse.NewBroker(cfg.Events.StatsThrottle, func() any { return rt.store.Stats() })
		opts = append(opts,
			ledger.WithListener(rt.metrics.Observe),
			ledger.WithListener(rt.broker.Observe),
		)
	}

	rt.store = ledger.New(rt.provider, opts...)
	rt.store.Load()
	return rt, nil
}

func (rt *runtime) close() {
	if rt.broker != nil {
		rt.broker.Close()
	}
	if err := rt.provider.Close(); err != nil {
		rt.logger.Warn("storage close failed", slog.String("error", err.Error()))
	}
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(os.Stdout, opts)
	if err != nil {
		return err
	}
	cfg := app.config

	rt, err := bootstrap(app, true)
	if err != nil {
		return err
	}
	defer rt.close()
	logger := rt.logger

	apiRouter := api.NewRouter(rt.store, cfg.Auth.AuthEnabled(), cfg.Auth.Token, rt.broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", healthOK)
	r.Get("/health/ready", healthOK)
	r.Handle("/metrics", rt.metrics.Handler())

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Pick up snapshots written by other processes sharing the data dir.
	if rt.fs != nil && cfg.Storage.Watch {
		g.Go(func() error {
			return storage.Watch(gCtx, rt.fs, cfg.Storage.Key, logger, func(data []byte) {
				_ = rt.store.Reload(data)
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

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher exits with the server.
var errShutdown = errors.New("shutdown")

func healthOK(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
