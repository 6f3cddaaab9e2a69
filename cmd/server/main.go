package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/timetable/internal/catalog"
	"github.com/JonMunkholm/timetable/internal/config"
	"github.com/JonMunkholm/timetable/internal/core"
	"github.com/JonMunkholm/timetable/internal/logging"
	"github.com/JonMunkholm/timetable/internal/store"
	"github.com/JonMunkholm/timetable/internal/web"
)

// sessionSweepInterval is how often expired import sessions are removed.
const sessionSweepInterval = time.Minute

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.Database.Enabled(),
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	registry := catalog.NewRegistry()
	if path := cfg.Catalog.AliasesFile; path != "" {
		aliases, err := catalog.LoadAliases(path)
		if err != nil {
			slog.Error("failed to load header aliases", "path", path, "error", err)
			os.Exit(1)
		}
		if err := registry.ApplyAliases(aliases); err != nil {
			slog.Error("invalid header aliases", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("header aliases loaded", "path", path, "entities", len(aliases))
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Database, registry.Unmarshal)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if cfg.Catalog.Seed {
		if err := store.Seed(ctx, st, catalog.Seed()); err != nil {
			slog.Error("failed to seed data", "error", err)
			os.Exit(1)
		}
		slog.Info("seed data loaded")
	}

	service := core.NewService(st, registry, core.Options{
		MaxConcurrentImports: cfg.Upload.MaxConcurrent,
		MaxWait:              cfg.Upload.MaxWaitTime,
		SessionTTL:           cfg.Upload.SessionTTL,
		PreviewRows:          cfg.Upload.PreviewRows,
	})
	slog.Info("entities registered", "count", len(service.Entities()))

	server := web.NewServer(service, cfg)

	// Background jobs stop with this context
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartSessionJanitor(jobCtx, sessionSweepInterval)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let imports that are parsing finish
		if status := service.ImportStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
