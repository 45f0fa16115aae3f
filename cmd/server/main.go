// Command server runs the perimeter API server.
//
// Configuration is layered: built-in defaults, an optional YAML file
// (-config flag, PERIMETER_CONFIG, ./config.yaml, /etc/perimeter/config.yaml),
// then PERIMETER_* environment variable overrides. See pkg/config.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vibebiz/perimeter/pkg/account"
	"github.com/vibebiz/perimeter/pkg/auth"
	"github.com/vibebiz/perimeter/pkg/config"
	"github.com/vibebiz/perimeter/pkg/credential"
	"github.com/vibebiz/perimeter/pkg/debug"
	"github.com/vibebiz/perimeter/pkg/storage"
	"github.com/vibebiz/perimeter/pkg/storage/memory"
	"github.com/vibebiz/perimeter/pkg/storage/postgres"
	"github.com/vibebiz/perimeter/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	debug.Init("", "")

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create store.
	store, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()
	logger.Info("storage ready", "type", cfg.Storage.Type)

	// Wire the account service and the gate.
	pool := credential.NewPool(cfg.Auth.HashPoolSize)
	accounts := account.NewService(store, pool, cfg.Auth.SessionTTL)
	resolver := auth.NewResolver(store, cfg.Auth.LookupTimeout, logger)
	gate := auth.NewGate(resolver)

	adapter := transport.NewAdapter(store, accounts, gate, logger)

	mux := http.NewServeMux()
	mux.Handle("/", adapter.Handler(cfg.Auth.RedactionMarkers...))
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in background.
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error.
	select {
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// newStore builds the configured storage backend.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	default:
		return memory.New(), nil
	}
}
