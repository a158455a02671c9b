package store

import (
	"context"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostQuery selects a page of posts. Zero values disable a predicate.
type PostQuery struct {
	Category domain.Category
	// TitleContains matches titles case-insensitively as a literal substring.
	TitleContains string
	AuthorID      uuid.UUID
	// SavedBy restricts results to posts saved by this user.
	SavedBy uuid.UUID
	Order   domain.SortOrder
	Offset  int
	Limit   int
}

// PostStore defines the interface for post data persistence.
// Every read returns posts with the Author projection populated.
type PostStore interface {
	// Create saves a new post.
	// Returns ErrForeignKey if the author does not exist.
	Create(ctx context.Context, post *domain.Post) error

	// GetByID retrieves a post and its author.
	// Returns ErrPostNotFound if the post does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	// Update writes title, content, category and updated_at.
	// Returns ErrPostNotFound if the post does not exist.
	Update(ctx context.Context, post *domain.Post) error

	// UpdateCoverImage stores the cover image filename for a post.
	// Returns ErrPostNotFound if the post does not exist.
	UpdateCoverImage(ctx context.Context, id uuid.UUID, filename string) error

	// Delete removes a post and its saved relations.
	// Returns ErrPostNotFound if the post does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindAndCount returns the requested page and the number of posts
	// matching the query's predicates, ignoring Offset and Limit.
	FindAndCount(ctx context.Context, q PostQuery) ([]domain.Post, int, error)

	// FindRelated returns up to limit of the newest posts in category,
	// excluding the post with id exclude.
	FindRelated(ctx context.Context, exclude uuid.UUID, category domain.Category, limit int) ([]domain.Post, error)

	// WithTx returns a new PostStore instance that uses the provided transaction.
	WithTx(tx *sqlx.Tx) PostStore
}
