package auth

import (
	"context"
	"log/slog"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
)

const unauthorizedMessage = "Unauthorized"

// Authenticator turns a bearer token into verified claims.
type Authenticator interface {
	// Authenticate returns an authentication error for empty, invalid,
	// expired or foreign tokens.
	Authenticate(ctx context.Context, token string) (*domain.Claims, error)
}

type tokenAuthenticator struct {
	codec    TokenCodec
	settings TokenSettings
	logger   *slog.Logger
}

// NewAuthenticator creates an Authenticator verifying tokens with codec.
func NewAuthenticator(codec TokenCodec, settings TokenSettings, logger *slog.Logger) Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &tokenAuthenticator{
		codec:    codec,
		settings: settings,
		logger:   logger.With(slog.String("component", "authenticator")),
	}
}

// Authenticate implements Authenticator.
func (a *tokenAuthenticator) Authenticate(ctx context.Context, token string) (*domain.Claims, error) {
	if token == "" {
		return nil, &domain.Error{Kind: domain.ErrAuthentication, Message: unauthorizedMessage, Err: ErrMissingToken}
	}

	claims, err := a.codec.Verify(ctx, token, a.settings.VerifyOptions())
	if err != nil {
		logger.FromContextOrDefault(ctx, a.logger).Debug("token rejected", slog.String("reason", err.Error()))
		return nil, &domain.Error{Kind: domain.ErrAuthentication, Message: unauthorizedMessage, Err: err}
	}
	return claims, nil
}
