package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/auth"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/authz"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
	"github.com/google/uuid"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	// Role defaults to domain.RoleUser when empty.
	Role domain.Role
}

// ProfileImageResult is returned by ReplaceProfileImage.
type ProfileImageResult struct {
	UserID         uuid.UUID `json:"userId"`
	ProfilePicture string    `json:"profilePicture"`
	Message        string    `json:"message"`
}

// UserService provides user-related operations.
type UserService interface {
	// Register creates an account. Returns a conflict error when the email is taken.
	Register(ctx context.Context, in RegisterInput) (*auth.UserProfile, error)

	// ListUsers returns every user. Only bloggers may call it.
	ListUsers(ctx context.Context, claims *domain.Claims) ([]auth.UserProfile, error)

	// GetUser returns a user. Bloggers may read anyone, users only themselves.
	GetUser(ctx context.Context, claims *domain.Claims, id uuid.UUID) (*auth.UserProfile, error)

	// ReplaceProfileImage stores upload as the caller's profile picture.
	ReplaceProfileImage(ctx context.Context, claims *domain.Claims, upload asset.Upload) (*ProfileImageResult, error)
}

type userService struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	authz  *authz.Evaluator
	assets *asset.Manager
	logger *slog.Logger
}

var _ UserService = (*userService)(nil)

// NewUserService creates a UserService.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	evaluator *authz.Evaluator,
	assets *asset.Manager,
	logger *slog.Logger,
) (UserService, error) {
	switch {
	case users == nil:
		return nil, domain.NewValidationError("users cannot be nil")
	case hasher == nil:
		return nil, domain.NewValidationError("hasher cannot be nil")
	case evaluator == nil:
		return nil, domain.NewValidationError("evaluator cannot be nil")
	case assets == nil:
		return nil, domain.NewValidationError("asset manager cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		users:  users,
		hasher: hasher,
		authz:  evaluator,
		assets: assets,
		logger: logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*auth.UserProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if in.Password == "" {
		return nil, domain.NewValidationError("password cannot be empty")
	}
	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, internalError("user", "register", err)
	}

	user, err := domain.NewUser(strings.TrimSpace(in.Name), strings.TrimSpace(in.Email), hashed, in.Role)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register existing email")
			return nil, domain.NewConflictError("Email already exists")
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return nil, internalError("user", "register", err)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	profile := auth.ProfileOf(user)
	return &profile, nil
}

// ListUsers implements UserService.
func (s *userService) ListUsers(ctx context.Context, claims *domain.Claims) ([]auth.UserProfile, error) {
	if err := s.authz.Authorize(claims, authz.OpListUsers, uuid.Nil); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users", slog.String("error", err.Error()))
		return nil, internalError("user", "list", err)
	}
	if len(users) == 0 {
		return nil, domain.NewNotFoundError("No users found")
	}

	profiles := make([]auth.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, auth.ProfileOf(&users[i]))
	}
	return profiles, nil
}

// GetUser implements UserService.
func (s *userService) GetUser(ctx context.Context, claims *domain.Claims, id uuid.UUID) (*auth.UserProfile, error) {
	if err := s.authz.Authorize(claims, authz.OpGetUser, id); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.NewNotFoundError(msgUserNotFound)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, internalError("user", "get", err)
	}

	profile := auth.ProfileOf(user)
	return &profile, nil
}

// ReplaceProfileImage implements UserService.
func (s *userService) ReplaceProfileImage(
	ctx context.Context,
	claims *domain.Claims,
	upload asset.Upload,
) (*ProfileImageResult, error) {
	if err := s.authz.Authorize(claims, authz.OpReplaceProfileImage, uuid.Nil); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.NewNotFoundError(msgUserNotFound)
		}
		return nil, internalError("user", "replace_profile_image", err)
	}

	name, err := s.assets.Replace(ctx, asset.ReplaceRequest{
		Kind:     asset.KindProfile,
		Previous: user.ProfilePicture,
		Upload:   upload,
		Persist: func(ctx context.Context, filename string) error {
			if err := s.users.UpdateProfilePicture(ctx, user.ID, filename); err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					return domain.NewNotFoundError(msgUserNotFound)
				}
				return internalError("user", "replace_profile_image", err)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &ProfileImageResult{
		UserID:         user.ID,
		ProfilePicture: name,
		Message:        "Profile image updated successfully",
	}, nil
}
