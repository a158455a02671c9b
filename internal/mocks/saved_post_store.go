package mocks

import (
	"context"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type savedKey struct {
	userID uuid.UUID
	postID uuid.UUID
}

// MockSavedPostStore implements store.SavedPostStore for testing
type MockSavedPostStore struct {
	ExistsFn func(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	AddFn    func(ctx context.Context, userID, postID uuid.UUID) error
	RemoveFn func(ctx context.Context, userID, postID uuid.UUID) error

	pairs map[savedKey]bool

	// AddCallCount tracks how many times Add reached the default implementation
	AddCallCount int
}

var _ store.SavedPostStore = (*MockSavedPostStore)(nil)

// NewMockSavedPostStore creates an empty mock relation store
func NewMockSavedPostStore() *MockSavedPostStore {
	return &MockSavedPostStore{pairs: make(map[savedKey]bool)}
}

// IsSaved reports whether the pair is stored. Used by MockPostStore for SavedBy queries.
func (m *MockSavedPostStore) IsSaved(userID, postID uuid.UUID) bool {
	return m.pairs[savedKey{userID, postID}]
}

// RemovePost drops every pair referencing postID, like the cascading foreign key.
func (m *MockSavedPostStore) RemovePost(postID uuid.UUID) {
	for k := range m.pairs {
		if k.postID == postID {
			delete(m.pairs, k)
		}
	}
}

// Exists implements the SavedPostStore interface
func (m *MockSavedPostStore) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, userID, postID)
	}
	return m.IsSaved(userID, postID), nil
}

// Add implements the SavedPostStore interface
func (m *MockSavedPostStore) Add(ctx context.Context, userID, postID uuid.UUID) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, userID, postID)
	}
	m.AddCallCount++
	k := savedKey{userID, postID}
	if m.pairs[k] {
		return store.ErrAlreadySaved
	}
	m.pairs[k] = true
	return nil
}

// Remove implements the SavedPostStore interface
func (m *MockSavedPostStore) Remove(ctx context.Context, userID, postID uuid.UUID) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, userID, postID)
	}
	k := savedKey{userID, postID}
	if !m.pairs[k] {
		return store.ErrSavedPostNotFound
	}
	delete(m.pairs, k)
	return nil
}

// WithTx implements the SavedPostStore interface for transaction support
func (m *MockSavedPostStore) WithTx(tx *sqlx.Tx) store.SavedPostStore {
	return m
}
