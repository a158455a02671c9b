package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api"
	apiMiddleware "github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/middleware"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/config"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/postgres"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/auth"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/authz"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
)

// pinger reports whether the database is reachable.
type pinger interface {
	PingContext(ctx context.Context) error
}

// application holds the wired handlers and the resources they depend on.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     pinger

	authHandler    *api.AuthHandler
	userHandler    *api.UserHandler
	postHandler    *api.PostHandler
	authMiddleware *apiMiddleware.AuthMiddleware
}

// newApplication builds stores, services and handlers on top of db.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sqlx.DB) (*application, error) {
	settings, err := auth.NewTokenSettings(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token settings: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	postStore := postgres.NewPostgresPostStore(db, logger)
	savedStore := postgres.NewPostgresSavedPostStore(db, logger)
	transactor := store.NewDBTransactor(db)

	files, err := newFileStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Storage.TempDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload temp dir: %w", err)
	}

	codec := auth.NewTokenCodec()
	evaluator := authz.NewEvaluator(nil, logger)
	query := service.NewQueryEngine(postStore, logger)
	assets := asset.NewManager(files, logger)

	identity, err := auth.NewIdentityService(userStore, auth.NewBcryptVerifier(), codec, settings, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity service: %w", err)
	}
	postService, err := service.NewPostService(postStore, userStore, transactor, evaluator, query, assets, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create post service: %w", err)
	}
	userService, err := service.NewUserService(
		userStore, auth.NewBcryptHasher(cfg.Auth.BcryptCost), evaluator, assets, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	savedService, err := service.NewSavedPostService(
		savedStore, userStore, postStore, transactor, evaluator, query, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create saved post service: %w", err)
	}
	images := service.NewImageService(assets, evaluator, logger)
	uploader := api.NewUploader(cfg.Storage.TempDir, cfg.Storage.MaxUploadBytes, logger)

	logger.Info("application initialized",
		"storage_driver", cfg.Storage.Driver,
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		authHandler:    api.NewAuthHandler(identity, logger),
		userHandler:    api.NewUserHandler(userService, savedService, images, uploader, logger),
		postHandler:    api.NewPostHandler(postService, images, uploader, logger),
		authMiddleware: apiMiddleware.NewAuthMiddleware(auth.NewAuthenticator(codec, settings, logger), logger),
	}, nil
}

// newFileStore selects the image backend named by cfg.Driver.
func newFileStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (asset.FileStore, error) {
	switch cfg.Driver {
	case "s3":
		files, err := asset.NewS3FileStore(ctx, cfg.S3, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		return files, nil
	case "local", "":
		return asset.NewLocalFileStore(cfg.RootDir, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

// Run serves the API until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
