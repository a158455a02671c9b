package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/authz"
	"github.com/google/uuid"
)

// ImageService serves stored profile pictures and cover images.
type ImageService interface {
	// OpenImage returns the content of an image. Returns a not-found error
	// with message "Image not found" when it does not exist.
	OpenImage(ctx context.Context, kind asset.Kind, filename string) (io.ReadCloser, error)
}

type imageService struct {
	assets *asset.Manager
	authz  *authz.Evaluator
	logger *slog.Logger
}

// NewImageService creates an ImageService.
func NewImageService(assets *asset.Manager, evaluator *authz.Evaluator, logger *slog.Logger) ImageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &imageService{
		assets: assets,
		authz:  evaluator,
		logger: logger.With(slog.String("component", "image_service")),
	}
}

// OpenImage implements ImageService.
func (s *imageService) OpenImage(ctx context.Context, kind asset.Kind, filename string) (io.ReadCloser, error) {
	if err := s.authz.Authorize(nil, authz.OpServeImage, uuid.Nil); err != nil {
		return nil, err
	}
	return s.assets.Open(ctx, kind, filename)
}
