package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// MockPostStore implements store.PostStore for testing.
// The default implementation keeps posts in memory and joins authors from
// Users and saved relations from Saved when those are set.
type MockPostStore struct {
	CreateFn           func(ctx context.Context, post *domain.Post) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	UpdateFn           func(ctx context.Context, post *domain.Post) error
	UpdateCoverImageFn func(ctx context.Context, id uuid.UUID, filename string) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error
	FindAndCountFn     func(ctx context.Context, q store.PostQuery) ([]domain.Post, int, error)
	FindRelatedFn      func(ctx context.Context, exclude uuid.UUID, category domain.Category, limit int) ([]domain.Post, error)

	Posts map[uuid.UUID]*domain.Post
	Users *MockUserStore
	Saved *MockSavedPostStore

	// LastQuery records the most recent FindAndCount query
	LastQuery store.PostQuery
}

var _ store.PostStore = (*MockPostStore)(nil)

// NewMockPostStore creates an empty mock post store
func NewMockPostStore(users *MockUserStore, saved *MockSavedPostStore) *MockPostStore {
	return &MockPostStore{
		Posts: make(map[uuid.UUID]*domain.Post),
		Users: users,
		Saved: saved,
	}
}

func (m *MockPostStore) withAuthor(p domain.Post) domain.Post {
	p.Author = domain.Author{ID: p.AuthorID}
	if m.Users != nil {
		for _, u := range m.Users.Users {
			if u.ID == p.AuthorID {
				p.Author.Name = u.Name
				p.Author.ProfilePicture = u.ProfilePicture
				break
			}
		}
	}
	return p
}

// Create implements the PostStore interface
func (m *MockPostStore) Create(ctx context.Context, post *domain.Post) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, post)
	}
	if m.Users != nil {
		if _, err := m.Users.GetByID(ctx, post.AuthorID); err != nil {
			return store.ErrForeignKey
		}
	}
	stored := *post
	m.Posts[post.ID] = &stored
	return nil
}

// GetByID implements the PostStore interface
func (m *MockPostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	p, ok := m.Posts[id]
	if !ok {
		return nil, store.ErrPostNotFound
	}
	out := m.withAuthor(*p)
	return &out, nil
}

// Update implements the PostStore interface
func (m *MockPostStore) Update(ctx context.Context, post *domain.Post) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, post)
	}
	p, ok := m.Posts[post.ID]
	if !ok {
		return store.ErrPostNotFound
	}
	p.Title = post.Title
	p.Content = post.Content
	p.Category = post.Category
	p.UpdatedAt = post.UpdatedAt
	return nil
}

// UpdateCoverImage implements the PostStore interface
func (m *MockPostStore) UpdateCoverImage(ctx context.Context, id uuid.UUID, filename string) error {
	if m.UpdateCoverImageFn != nil {
		return m.UpdateCoverImageFn(ctx, id, filename)
	}
	p, ok := m.Posts[id]
	if !ok {
		return store.ErrPostNotFound
	}
	p.CoverImage = filename
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete implements the PostStore interface
func (m *MockPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, ok := m.Posts[id]; !ok {
		return store.ErrPostNotFound
	}
	delete(m.Posts, id)
	if m.Saved != nil {
		m.Saved.RemovePost(id)
	}
	return nil
}

func (m *MockPostStore) sorted(order domain.SortOrder) []domain.Post {
	posts := make([]domain.Post, 0, len(m.Posts))
	for _, p := range m.Posts {
		posts = append(posts, m.withAuthor(*p))
	}
	sort.Slice(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if order == domain.OrderAsc {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() > b.ID.String()
	})
	return posts
}

// FindAndCount implements the PostStore interface
func (m *MockPostStore) FindAndCount(ctx context.Context, q store.PostQuery) ([]domain.Post, int, error) {
	m.LastQuery = q
	if m.FindAndCountFn != nil {
		return m.FindAndCountFn(ctx, q)
	}

	var matched []domain.Post
	for _, p := range m.sorted(q.Order) {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.TitleContains != "" &&
			!strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.TitleContains)) {
			continue
		}
		if q.AuthorID != uuid.Nil && p.AuthorID != q.AuthorID {
			continue
		}
		if q.SavedBy != uuid.Nil && (m.Saved == nil || !m.Saved.IsSaved(q.SavedBy, p.ID)) {
			continue
		}
		matched = append(matched, p)
	}

	total := len(matched)
	if q.Offset >= total {
		return []domain.Post{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

// FindRelated implements the PostStore interface
func (m *MockPostStore) FindRelated(
	ctx context.Context,
	exclude uuid.UUID,
	category domain.Category,
	limit int,
) ([]domain.Post, error) {
	if m.FindRelatedFn != nil {
		return m.FindRelatedFn(ctx, exclude, category, limit)
	}
	related := []domain.Post{}
	for _, p := range m.sorted(domain.OrderDesc) {
		if len(related) == limit {
			break
		}
		if p.ID != exclude && p.Category == category {
			related = append(related, p)
		}
	}
	return related, nil
}

// WithTx implements the PostStore interface for transaction support
func (m *MockPostStore) WithTx(tx *sqlx.Tx) store.PostStore {
	return m
}
