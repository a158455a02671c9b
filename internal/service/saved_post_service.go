package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/authz"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	msgAlreadySaved  = "Post is already saved"
	msgNotSaved      = "Post is not in saved posts"
	msgSavedNotFound = "No saved posts found"
	msgPostSaved     = "Post saved successfully"
)

// SaveResult is returned by SavePost.
type SaveResult struct {
	PostID  uuid.UUID `json:"postId"`
	Message string    `json:"message"`
}

// SavedPostService manages the posts a user has saved.
type SavedPostService interface {
	// SavePost records that the caller saved postID. Saving twice is a conflict.
	SavePost(ctx context.Context, claims *domain.Claims, postID uuid.UUID) (*SaveResult, error)

	// UnsavePost removes postID from the caller's saved posts.
	UnsavePost(ctx context.Context, claims *domain.Claims, postID uuid.UUID) error

	// ListSavedPosts returns a page of the caller's saved posts.
	ListSavedPosts(ctx context.Context, claims *domain.Claims, f Filter) (*domain.PostPage, error)
}

type savedPostService struct {
	saved  store.SavedPostStore
	users  store.UserStore
	posts  store.PostStore
	tx     store.Transactor
	authz  *authz.Evaluator
	query  *QueryEngine
	logger *slog.Logger
}

var _ SavedPostService = (*savedPostService)(nil)

// NewSavedPostService creates a SavedPostService.
func NewSavedPostService(
	saved store.SavedPostStore,
	users store.UserStore,
	posts store.PostStore,
	tx store.Transactor,
	evaluator *authz.Evaluator,
	query *QueryEngine,
	logger *slog.Logger,
) (SavedPostService, error) {
	switch {
	case saved == nil:
		return nil, domain.NewValidationError("saved cannot be nil")
	case users == nil:
		return nil, domain.NewValidationError("users cannot be nil")
	case posts == nil:
		return nil, domain.NewValidationError("posts cannot be nil")
	case tx == nil:
		return nil, domain.NewValidationError("transactor cannot be nil")
	case evaluator == nil:
		return nil, domain.NewValidationError("evaluator cannot be nil")
	case query == nil:
		return nil, domain.NewValidationError("query engine cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &savedPostService{
		saved:  saved,
		users:  users,
		posts:  posts,
		tx:     tx,
		authz:  evaluator,
		query:  query,
		logger: logger.With(slog.String("component", "saved_post_service")),
	}, nil
}

func (s *savedPostService) requireUser(ctx context.Context, users store.UserStore, id uuid.UUID, op string) error {
	if _, err := users.GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return domain.NewNotFoundError(msgUserNotFound)
		}
		return internalError("saved_post", op, err)
	}
	return nil
}

// SavePost implements SavedPostService.
func (s *savedPostService) SavePost(ctx context.Context, claims *domain.Claims, postID uuid.UUID) (*SaveResult, error) {
	if err := s.authz.Authorize(claims, authz.OpSavePost, uuid.Nil); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	userID := claims.Subject

	err := s.tx.Transact(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.requireUser(ctx, s.users.WithTx(tx), userID, "save"); err != nil {
			return err
		}
		if _, err := s.posts.WithTx(tx).GetByID(ctx, postID); err != nil {
			if errors.Is(err, store.ErrPostNotFound) {
				return domain.NewNotFoundError(msgPostNotFound)
			}
			return internalError("saved_post", "save", err)
		}

		saved := s.saved.WithTx(tx)
		exists, err := saved.Exists(ctx, userID, postID)
		if err != nil {
			return internalError("saved_post", "save", err)
		}
		if exists {
			return domain.NewConflictError(msgAlreadySaved)
		}

		if err := saved.Add(ctx, userID, postID); err != nil {
			switch {
			case errors.Is(err, store.ErrAlreadySaved):
				return domain.NewConflictError(msgAlreadySaved)
			case errors.Is(err, store.ErrForeignKey):
				return domain.NewNotFoundError(msgPostNotFound)
			default:
				return internalError("saved_post", "save", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.transactionError(ctx, "save", err)
	}

	log.Info("post saved",
		slog.String("user_id", userID.String()),
		slog.String("post_id", postID.String()))
	return &SaveResult{PostID: postID, Message: msgPostSaved}, nil
}

// UnsavePost implements SavedPostService.
func (s *savedPostService) UnsavePost(ctx context.Context, claims *domain.Claims, postID uuid.UUID) error {
	if err := s.authz.Authorize(claims, authz.OpUnsavePost, uuid.Nil); err != nil {
		return err
	}
	if err := s.requireUser(ctx, s.users, claims.Subject, "unsave"); err != nil {
		return err
	}

	if err := s.saved.Remove(ctx, claims.Subject, postID); err != nil {
		if errors.Is(err, store.ErrSavedPostNotFound) {
			return domain.NewNotFoundError(msgNotSaved)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to unsave post",
			slog.String("error", err.Error()),
			slog.String("post_id", postID.String()))
		return internalError("saved_post", "unsave", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("post unsaved",
		slog.String("user_id", claims.Subject.String()),
		slog.String("post_id", postID.String()))
	return nil
}

// ListSavedPosts implements SavedPostService.
func (s *savedPostService) ListSavedPosts(
	ctx context.Context,
	claims *domain.Claims,
	f Filter,
) (*domain.PostPage, error) {
	if err := s.authz.Authorize(claims, authz.OpListSavedPosts, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, s.users, claims.Subject, "list"); err != nil {
		return nil, err
	}

	f.SavedBy = claims.Subject
	f.AuthorID = uuid.Nil
	return s.query.list(ctx, f, msgSavedNotFound)
}

func (s *savedPostService) transactionError(ctx context.Context, op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("saved post transaction failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return internalError("saved_post", op, err)
}
