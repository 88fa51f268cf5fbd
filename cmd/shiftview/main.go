package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pthm/shiftview/internal/config"
	"github.com/pthm/shiftview/internal/web"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/session"
)

// purgeInterval is how often expired sessions are removed.
const purgeInterval = time.Hour

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	logger := cfg.Logging.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	store, err := session.Open(cfg.Session.Path, session.WithTTL(cfg.Session.TTL.Std()))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout.Std()),
		api.WithLogger(logger),
	)

	srv, err := web.New(cfg, client, store, logger)
	if err != nil {
		return err
	}
	httpSrv := srv.NewHTTPServer(cfg.Server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go purgeSessions(ctx, store, logger)

	errc := make(chan error, 1)
	go func() {
		logger.Info("server_event", "event", "listening", "addr", cfg.Server.Addr, "api", cfg.API.BaseURL)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server_event", "event", "shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server_event", "event", "stopped")
	return nil
}

func purgeSessions(ctx context.Context, store *session.Store, logger *slog.Logger) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.Purge(ctx)
			if err != nil {
				logger.Warn("session_event", "event", "purge_failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("session_event", "event", "purged", "sessions", n)
			}
		}
	}
}
