package main

import (
	"fmt"
	"log/slog"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/config"
)

// loadAppConfig loads the application configuration from environment
// variables, an optional .env file and an optional YAML file.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_driver", cfg.Storage.Driver)
	slog.Debug("auth configuration",
		"audience", cfg.Auth.Audience,
		"issuer", cfg.Auth.Issuer,
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	return cfg, nil
}
