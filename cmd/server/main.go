// Package main runs the blog REST API server.
//
// Without flags the server loads configuration, applies pending migrations
// when database.auto_migrate is set and serves HTTP until SIGINT or SIGTERM.
// With -migrate it runs a single goose command and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/postgres"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/redact"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	configPath := flag.String("config", "", "path to a YAML config file (defaults to ./config.yaml when present)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *migrateCmd); err != nil {
		slog.Error("server exited with error", slog.String("error", redact.Error(err)))
		stop()
		os.Exit(1)
	}
}

// run wires the application and blocks until ctx is cancelled.
func run(ctx context.Context, configPath, migrateCmd string) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	if migrateCmd != "" {
		return postgres.Migrate(ctx, db.DB, migrateCmd, logger)
	}
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db.DB, "up", logger); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	app, err := newApplication(ctx, cfg, logger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
