package store

import (
	"context"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns every user ordered by creation date, oldest first.
	// An empty store yields an empty slice and no error.
	List(ctx context.Context) ([]domain.User, error)

	// UpdateProfilePicture stores the profile image filename for a user.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateProfilePicture(ctx context.Context, id uuid.UUID, filename string) error

	// Delete removes a user from the store by their ID.
	// Posts and saved relations are removed by cascading foreign keys.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sqlx.Tx) UserStore
}
