package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound indicates that a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate indicates that an entity violates a uniqueness constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity indicates the store rejected an entity before writing it.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed indicates a transaction could not be started or committed.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific not found errors.

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrPostNotFound indicates that the requested post does not exist.
	ErrPostNotFound = fmt.Errorf("%w: post", ErrNotFound)

	// ErrSavedPostNotFound indicates that the user has not saved the post.
	ErrSavedPostNotFound = fmt.Errorf("%w: saved post", ErrNotFound)

	// Entity-specific duplicate errors.

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrAlreadySaved indicates that the (user, post) pair is already stored.
	ErrAlreadySaved = fmt.Errorf("%w: saved post", ErrDuplicate)

	// ErrForeignKey indicates that a referenced row does not exist.
	ErrForeignKey = errors.New("referenced entity does not exist")
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// Entity-specific errors wrap ErrNotFound, so a single errors.Is suffices.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
