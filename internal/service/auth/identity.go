package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
	"github.com/google/uuid"
)

// invalidCredentialsMessage is returned for unknown emails and wrong passwords alike.
const invalidCredentialsMessage = "Email or password invalid"

// UserProfile is the public view of a user returned on login.
type UserProfile struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	ProfilePicture string      `json:"profilePicture"`
}

// ProfileOf builds the public view of u.
func ProfileOf(u *domain.User) UserProfile {
	return UserProfile{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		ProfilePicture: u.ProfilePicture,
	}
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User        UserProfile `json:"user"`
	AccessToken string      `json:"accessToken"`
}

// IdentityService verifies credentials and issues access tokens.
type IdentityService interface {
	// Login returns an authentication error with the same message whether
	// the email is unknown or the password is wrong.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type identityService struct {
	users    store.UserStore
	verifier PasswordVerifier
	codec    TokenCodec
	settings TokenSettings
	logger   *slog.Logger
}

// NewIdentityService creates an IdentityService.
func NewIdentityService(
	users store.UserStore,
	verifier PasswordVerifier,
	codec TokenCodec,
	settings TokenSettings,
	logger *slog.Logger,
) (IdentityService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users cannot be nil")
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier cannot be nil")
	}
	if codec == nil {
		return nil, domain.NewValidationError("codec cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &identityService{
		users:    users,
		verifier: verifier,
		codec:    codec,
		settings: settings,
		logger:   logger.With(slog.String("component", "identity_service")),
	}, nil
}

// Login implements IdentityService.
func (s *identityService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login failed: unknown email")
			return nil, domain.NewAuthenticationError(invalidCredentialsMessage)
		}
		log.Error("failed to look up user for login", slog.String("error", err.Error()))
		return nil, domain.NewInternalError("failed to log in", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login failed: password mismatch", slog.String("user_id", user.ID.String()))
		return nil, domain.NewAuthenticationError(invalidCredentialsMessage)
	}

	token, err := s.codec.Sign(ctx, domain.Claims{
		Subject: user.ID,
		Email:   user.Email,
		Role:    user.Role,
	}, s.settings.SignOptions())
	if err != nil {
		log.Error("failed to sign access token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return nil, domain.NewInternalError("failed to log in", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return &LoginResult{User: ProfileOf(user), AccessToken: token}, nil
}
