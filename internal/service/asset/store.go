package asset

import (
	"context"
	"errors"
	"io"
)

// ErrFileNotFound is returned by FileStore.Open when no file exists under the name.
var ErrFileNotFound = errors.New("file not found")

// FileStore persists image files grouped into directories.
// Names passed to a FileStore are plain filenames without path separators.
type FileStore interface {
	// EnsureDirectory creates dir if it does not exist.
	EnsureDirectory(ctx context.Context, dir string) error

	// Move takes ownership of the local file at srcPath and stores it as
	// dir/name. On success srcPath no longer exists.
	Move(ctx context.Context, srcPath, dir, name string) error

	// Delete removes dir/name. Deleting a missing file is not an error.
	Delete(ctx context.Context, dir, name string) error

	// Exists reports whether dir/name exists.
	Exists(ctx context.Context, dir, name string) (bool, error)

	// Open returns the content of dir/name.
	// Returns ErrFileNotFound if the file does not exist.
	Open(ctx context.Context, dir, name string) (io.ReadCloser, error)
}
