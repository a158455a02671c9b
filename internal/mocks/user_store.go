package mocks

import (
	"context"
	"sort"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn               func(ctx context.Context, user *domain.User) error
	GetByEmailFn           func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListFn                 func(ctx context.Context) ([]domain.User, error)
	UpdateProfilePictureFn func(ctx context.Context, id uuid.UUID, filename string) error
	DeleteFn               func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation
	Users           map[string]*domain.User
	LastUserID      uuid.UUID
	CreateError     error
	GetByEmailError error
	GetByIDError    error
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// AddUser stores u directly, bypassing Create.
func (m *MockUserStore) AddUser(u *domain.User) {
	m.Users[u.Email] = u
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	m.Users[user.Email] = user
	m.LastUserID = user.ID
	return nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}

	user, exists := m.Users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	return user, nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}

	// Default implementation searches through Users map
	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, store.ErrUserNotFound
}

// List implements the UserStore interface, oldest first
func (m *MockUserStore) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	users := make([]domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID.String() < users[j].ID.String()
	})
	return users, nil
}

// UpdateProfilePicture implements the UserStore interface
func (m *MockUserStore) UpdateProfilePicture(ctx context.Context, id uuid.UUID, filename string) error {
	if m.UpdateProfilePictureFn != nil {
		return m.UpdateProfilePictureFn(ctx, id, filename)
	}

	for _, user := range m.Users {
		if user.ID == id {
			user.ProfilePicture = filename
			return nil
		}
	}

	return store.ErrUserNotFound
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	// Default implementation searches through Users map
	for email, user := range m.Users {
		if user.ID == id {
			delete(m.Users, email)
			return nil
		}
	}

	return store.ErrUserNotFound
}

// WithTx implements the UserStore interface for transaction support
func (m *MockUserStore) WithTx(tx *sqlx.Tx) store.UserStore {
	// For mock purposes, just return the same mock
	return m
}
