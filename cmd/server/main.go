// Package main is the entry point for the soarr flight log server.
//
// main's job is deliberately small: load configuration, open the store,
// hand both to the server package and start it. All application logic lives
// under internal/.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/soarr/flightlog/internal/config"
	"github.com/soarr/flightlog/internal/repository"
	"github.com/soarr/flightlog/internal/repository/postgres"
	sqliteRepo "github.com/soarr/flightlog/internal/repository/sqlite"
	"github.com/soarr/flightlog/internal/server"
)

// devSessionSecret is only used when DEBUG is set and no SESSION_SECRET is
// provided. Production refuses to start without a real secret.
const devSessionSecret = "soarr-dev-secret-not-for-production"

func main() {
	// A missing .env file is fine; the environment may be set directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", slog.String("error", err.Error()))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	if cfg.SessionSecret == "" {
		if !cfg.Debug {
			logger.Error("SESSION_SECRET is required; generate one with `openssl rand -hex 32`")
			os.Exit(1)
		}
		logger.Warn("SESSION_SECRET not set, using insecure development secret")
		cfg.SessionSecret = devSessionSecret
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, store, logger)
	if err != nil {
		store.Close()
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openStore picks the storage backend: Postgres when DATABASE_URL is set,
// otherwise a local SQLite file.
func openStore(cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	if cfg.DatabaseURL != "" {
		logger.Info("using Postgres store")
		return postgres.New(context.Background(), cfg.DatabaseURL)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, err
	}
	logger.Info("using SQLite store", slog.String("path", cfg.DBPath))
	return sqliteRepo.New(cfg.DBPath)
}
