package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
	"github.com/google/uuid"
)

// Pagination bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

const msgPostsNotFound = "Posts not found"

// Filter selects a page of posts. Zero values of Page, Limit and Order mean
// their defaults; zero values of the other fields disable that predicate.
type Filter struct {
	Page     int
	Limit    int
	Category domain.Category
	// Search matches titles case-insensitively as a literal substring.
	Search   string
	Order    domain.SortOrder
	AuthorID uuid.UUID
	SavedBy  uuid.UUID
}

// Normalize applies defaults and validates f.
func (f Filter) Normalize() (Filter, error) {
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Order == "" {
		f.Order = domain.OrderDesc
	}
	switch {
	case f.Page < 1:
		return f, domain.NewValidationError("page must not be less than 1")
	case f.Limit < 1 || f.Limit > MaxLimit:
		return f, domain.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
	case !f.Order.Valid():
		return f, domain.NewValidationError("order must be one of: asc, desc")
	case f.Category != "" && !f.Category.Valid():
		return f, domain.NewValidationError(fmt.Sprintf("invalid category %q", f.Category))
	}
	return f, nil
}

// Offset is the number of posts before the requested page.
// It is only meaningful when BeyondAnyOffset reports false.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// BeyondAnyOffset reports whether the requested page starts past the largest
// representable offset. Such a page cannot hold any post.
func (f Filter) BeyondAnyOffset() bool {
	return f.Limit > 0 && f.Page-1 > math.MaxInt/f.Limit
}

// QueryEngine answers paginated post listings.
type QueryEngine struct {
	posts  store.PostStore
	logger *slog.Logger
}

// NewQueryEngine creates a QueryEngine over posts.
func NewQueryEngine(posts store.PostStore, logger *slog.Logger) *QueryEngine {
	if posts == nil {
		panic("posts cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryEngine{
		posts:  posts,
		logger: logger.With(slog.String("component", "query_engine")),
	}
}

// List returns the page of posts matching f, newest first unless f.Order
// says otherwise. An empty page is a not-found error.
func (e *QueryEngine) List(ctx context.Context, f Filter) (*domain.PostPage, error) {
	return e.list(ctx, f, msgPostsNotFound)
}

func (e *QueryEngine) list(ctx context.Context, f Filter, emptyMessage string) (*domain.PostPage, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	f, err := f.Normalize()
	if err != nil {
		return nil, err
	}
	if f.BeyondAnyOffset() {
		log.Debug("page beyond any offset", slog.Int("page", f.Page), slog.Int("limit", f.Limit))
		return nil, domain.NewNotFoundError(emptyMessage)
	}

	posts, total, err := e.posts.FindAndCount(ctx, store.PostQuery{
		Category:      f.Category,
		TitleContains: f.Search,
		AuthorID:      f.AuthorID,
		SavedBy:       f.SavedBy,
		Order:         f.Order,
		Offset:        f.Offset(),
		Limit:         f.Limit,
	})
	if err != nil {
		log.Error("failed to query posts",
			slog.String("error", err.Error()),
			slog.Int("page", f.Page),
			slog.Int("limit", f.Limit))
		return nil, internalError("query", "list", err)
	}

	if len(posts) == 0 {
		log.Debug("empty post page",
			slog.Int("page", f.Page),
			slog.Int("total", total))
		return nil, domain.NewNotFoundError(emptyMessage)
	}

	return &domain.PostPage{
		Data: posts,
		Meta: domain.PageMeta{
			Total:    total,
			Page:     f.Page,
			LastPage: domain.LastPage(total, f.Limit),
			Limit:    f.Limit,
			Order:    f.Order,
		},
	}, nil
}
