package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/authz"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Recommendation bounds.
const (
	DefaultRecommendations = 3
	MaxRecommendations     = 10
)

const msgMyPostsNotFound = "No posts found"

// CreatePostInput carries the fields of a new post.
type CreatePostInput struct {
	Title    string
	Content  string
	Category domain.Category
}

// DeletePostResult is returned by DeletePost.
type DeletePostResult struct {
	RemovedPostID uuid.UUID `json:"removedPostId"`
	Message       string    `json:"message"`
}

// CoverResult is returned by ReplaceCover.
type CoverResult struct {
	PostID     uuid.UUID `json:"postId"`
	CoverImage string    `json:"coverImage"`
	Message    string    `json:"message"`
}

// PostService manages blog posts.
type PostService interface {
	// CreatePost creates a post authored by the caller, who must be a blogger.
	CreatePost(ctx context.Context, claims *domain.Claims, in CreatePostInput) (*domain.Post, error)

	// ListPosts returns a page of all posts.
	ListPosts(ctx context.Context, f Filter) (*domain.PostPage, error)

	// GetPost returns one post with its author.
	GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	// UpdatePost applies patch to a post owned by the calling blogger.
	UpdatePost(ctx context.Context, claims *domain.Claims, id uuid.UUID, patch domain.PostPatch) (*domain.Post, error)

	// DeletePost removes a post owned by the calling blogger and its cover image.
	DeletePost(ctx context.Context, claims *domain.Claims, id uuid.UUID) (*DeletePostResult, error)

	// ListMyPosts returns a page of the caller's own posts.
	ListMyPosts(ctx context.Context, claims *domain.Claims, f Filter) (*domain.PostPage, error)

	// ReplaceCover stores upload as the cover of a post owned by the calling blogger.
	ReplaceCover(ctx context.Context, claims *domain.Claims, postID uuid.UUID, upload asset.Upload) (*CoverResult, error)

	// Recommendations returns up to limit of the newest posts sharing the
	// post's category, excluding the post itself. limit 0 means the default.
	Recommendations(ctx context.Context, postID uuid.UUID, limit int) ([]domain.Post, error)
}

type postService struct {
	posts  store.PostStore
	users  store.UserStore
	tx     store.Transactor
	authz  *authz.Evaluator
	query  *QueryEngine
	assets *asset.Manager
	logger *slog.Logger
	now    func() time.Time
}

var _ PostService = (*postService)(nil)

// NewPostService creates a PostService.
func NewPostService(
	posts store.PostStore,
	users store.UserStore,
	tx store.Transactor,
	evaluator *authz.Evaluator,
	query *QueryEngine,
	assets *asset.Manager,
	logger *slog.Logger,
) (PostService, error) {
	switch {
	case posts == nil:
		return nil, domain.NewValidationError("posts cannot be nil")
	case users == nil:
		return nil, domain.NewValidationError("users cannot be nil")
	case tx == nil:
		return nil, domain.NewValidationError("transactor cannot be nil")
	case evaluator == nil:
		return nil, domain.NewValidationError("evaluator cannot be nil")
	case query == nil:
		return nil, domain.NewValidationError("query engine cannot be nil")
	case assets == nil:
		return nil, domain.NewValidationError("asset manager cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		posts:  posts,
		users:  users,
		tx:     tx,
		authz:  evaluator,
		query:  query,
		assets: assets,
		logger: logger.With(slog.String("component", "post_service")),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreatePost implements PostService.
func (s *postService) CreatePost(ctx context.Context, claims *domain.Claims, in CreatePostInput) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.authz.Authorize(claims, authz.OpCreatePost, uuid.Nil); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, claims.Subject); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.NewNotFoundError(msgAuthorNotFound)
		}
		log.Error("failed to load author", slog.String("error", err.Error()))
		return nil, internalError("post", "create", err)
	}

	post, err := domain.NewPost(claims.Subject, in.Title, in.Content, in.Category)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, store.ErrForeignKey) {
			return nil, domain.NewNotFoundError(msgAuthorNotFound)
		}
		log.Error("failed to create post",
			slog.String("error", err.Error()),
			slog.String("author_id", claims.Subject.String()))
		return nil, internalError("post", "create", err)
	}

	created, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		log.Error("failed to read back created post",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return nil, internalError("post", "create", err)
	}

	log.Info("post created",
		slog.String("post_id", created.ID.String()),
		slog.String("author_id", claims.Subject.String()))
	return created, nil
}

// ListPosts implements PostService.
func (s *postService) ListPosts(ctx context.Context, f Filter) (*domain.PostPage, error) {
	f.AuthorID = uuid.Nil
	f.SavedBy = uuid.Nil
	return s.query.List(ctx, f)
}

// GetPost implements PostService.
func (s *postService) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return s.getPost(ctx, s.posts, id, "get")
}

func (s *postService) getPost(ctx context.Context, posts store.PostStore, id uuid.UUID, op string) (*domain.Post, error) {
	post, err := posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			return nil, domain.NewNotFoundError(msgPostNotFound)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load post",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return nil, internalError("post", op, err)
	}
	return post, nil
}

// UpdatePost implements PostService.
func (s *postService) UpdatePost(
	ctx context.Context,
	claims *domain.Claims,
	id uuid.UUID,
	patch domain.PostPatch,
) (*domain.Post, error) {
	if err := s.authz.AuthorizeRole(claims, authz.OpUpdatePost); err != nil {
		return nil, err
	}

	var updated *domain.Post
	err := s.tx.Transact(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		posts := s.posts.WithTx(tx)

		post, err := s.getPost(ctx, posts, id, "update")
		if err != nil {
			return err
		}
		if err := s.authz.Authorize(claims, authz.OpUpdatePost, post.AuthorID); err != nil {
			return err
		}
		if err := patch.Apply(post, s.now()); err != nil {
			return err
		}
		if err := posts.Update(ctx, post); err != nil {
			if errors.Is(err, store.ErrPostNotFound) {
				return domain.NewNotFoundError(msgPostNotFound)
			}
			return internalError("post", "update", err)
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, s.transactionError(ctx, "update", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("post updated", slog.String("post_id", id.String()))
	return updated, nil
}

// DeletePost implements PostService.
func (s *postService) DeletePost(ctx context.Context, claims *domain.Claims, id uuid.UUID) (*DeletePostResult, error) {
	if err := s.authz.AuthorizeRole(claims, authz.OpDeletePost); err != nil {
		return nil, err
	}

	var cover string
	err := s.tx.Transact(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		posts := s.posts.WithTx(tx)

		post, err := s.getPost(ctx, posts, id, "delete")
		if err != nil {
			return err
		}
		if err := s.authz.Authorize(claims, authz.OpDeletePost, post.AuthorID); err != nil {
			return err
		}
		if err := posts.Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrPostNotFound) {
				return domain.NewNotFoundError(msgPostNotFound)
			}
			return internalError("post", "delete", err)
		}
		cover = post.CoverImage
		return nil
	})
	if err != nil {
		return nil, s.transactionError(ctx, "delete", err)
	}

	if cover != "" {
		s.assets.Remove(ctx, asset.KindCover, cover)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("post deleted", slog.String("post_id", id.String()))
	return &DeletePostResult{RemovedPostID: id, Message: "Post deleted successfully"}, nil
}

// transactionError passes domain errors through and wraps anything else,
// such as a failed commit, as internal.
func (s *postService) transactionError(ctx context.Context, op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("post transaction failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return internalError("post", op, err)
}

// ListMyPosts implements PostService.
func (s *postService) ListMyPosts(ctx context.Context, claims *domain.Claims, f Filter) (*domain.PostPage, error) {
	if err := s.authz.Authorize(claims, authz.OpListMyPosts, uuid.Nil); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, claims.Subject); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.NewNotFoundError(msgUserNotFound)
		}
		return nil, internalError("post", "list_mine", err)
	}

	f.AuthorID = claims.Subject
	f.SavedBy = uuid.Nil
	return s.query.list(ctx, f, msgMyPostsNotFound)
}

// ReplaceCover implements PostService.
func (s *postService) ReplaceCover(
	ctx context.Context,
	claims *domain.Claims,
	postID uuid.UUID,
	upload asset.Upload,
) (*CoverResult, error) {
	if err := s.authz.AuthorizeRole(claims, authz.OpReplaceCover); err != nil {
		return nil, err
	}

	post, err := s.getPost(ctx, s.posts, postID, "replace_cover")
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(claims, authz.OpReplaceCover, post.AuthorID); err != nil {
		return nil, err
	}

	name, err := s.assets.Replace(ctx, asset.ReplaceRequest{
		Kind:     asset.KindCover,
		Previous: post.CoverImage,
		Upload:   upload,
		Persist: func(ctx context.Context, filename string) error {
			if err := s.posts.UpdateCoverImage(ctx, postID, filename); err != nil {
				if errors.Is(err, store.ErrPostNotFound) {
					return domain.NewNotFoundError(msgPostNotFound)
				}
				return internalError("post", "replace_cover", err)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &CoverResult{
		PostID:     postID,
		CoverImage: name,
		Message:    "Cover image updated successfully",
	}, nil
}

// Recommendations implements PostService.
func (s *postService) Recommendations(ctx context.Context, postID uuid.UUID, limit int) ([]domain.Post, error) {
	if limit == 0 {
		limit = DefaultRecommendations
	}
	if limit < 1 || limit > MaxRecommendations {
		return nil, domain.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxRecommendations))
	}

	post, err := s.getPost(ctx, s.posts, postID, "recommendations")
	if err != nil {
		return nil, err
	}

	related, err := s.posts.FindRelated(ctx, post.ID, post.Category, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to find related posts",
			slog.String("error", err.Error()),
			slog.String("post_id", postID.String()))
		return nil, internalError("post", "recommendations", err)
	}
	return related, nil
}
