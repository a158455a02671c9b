package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SavedPostStore persists the user-saved-post relation.
type SavedPostStore interface {
	// Exists reports whether the user has saved the post.
	Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error)

	// Add records the pair.
	// Returns ErrAlreadySaved if the pair exists and ErrForeignKey if
	// either side does not exist.
	Add(ctx context.Context, userID, postID uuid.UUID) error

	// Remove deletes the pair.
	// Returns ErrSavedPostNotFound if the pair does not exist.
	Remove(ctx context.Context, userID, postID uuid.UUID) error

	// WithTx returns a new SavedPostStore instance that uses the provided transaction.
	WithTx(tx *sqlx.Tx) SavedPostStore
}
