package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "BLOG"

// defaults applied before any file or environment source is read.
var defaults = map[string]any{
	"server.port":                 8080,
	"server.log_level":            "info",
	"database.auto_migrate":       true,
	"auth.audience":               "blog-api",
	"auth.issuer":                 "blog-api",
	"auth.token_lifetime_minutes": 60,
	"auth.bcrypt_cost":            10,
	"storage.driver":              "local",
	"storage.root_dir":            "./uploads",
	"storage.temp_dir":            "./uploads/tmp",
	"storage.max_upload_bytes":    5 * 1024 * 1024,
	"storage.s3.region":           "us-east-1",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load but reads the given YAML file instead of
// searching the working directory for config.yaml.
func LoadFrom(configPath string) (*Config, error) {
	// A missing .env file is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			if configPath != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
			slog.Warn("error reading config file", "error", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so keys
	// without defaults are bound explicitly.
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"storage.s3.bucket",
		"storage.s3.endpoint",
		"storage.s3.access_key",
		"storage.s3.secret_key",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if c.Storage.Driver == "s3" && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("configuration validation failed: storage.s3.bucket is required when storage.driver is s3")
	}
	return nil
}

// TokenLifetime returns the configured access token lifetime.
func (a AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(a.TokenLifetimeMinutes) * time.Minute
}
