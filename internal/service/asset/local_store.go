package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
)

// LocalFileStore implements FileStore on the local filesystem below a root directory.
type LocalFileStore struct {
	root   string
	logger *slog.Logger
}

var _ FileStore = (*LocalFileStore)(nil)

// NewLocalFileStore creates a LocalFileStore rooted at root.
func NewLocalFileStore(root string, logger *slog.Logger) *LocalFileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalFileStore{
		root:   root,
		logger: logger.With(slog.String("component", "local_file_store")),
	}
}

func (s *LocalFileStore) path(dir, name string) string {
	return filepath.Join(s.root, dir, filepath.Base(name))
}

// EnsureDirectory implements FileStore.
func (s *LocalFileStore) EnsureDirectory(_ context.Context, dir string) error {
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// Move implements FileStore. It renames srcPath into place and falls back to
// copy and remove when the rename crosses filesystems.
func (s *LocalFileStore) Move(ctx context.Context, srcPath, dir, name string) error {
	dst := s.path(dir, name)
	if err := os.Rename(srcPath, dst); err == nil {
		return nil
	} else if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to move %s: %w", srcPath, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("rename failed, copying file instead",
		slog.String("src", srcPath),
		slog.String("dst", dst))

	if err := copyFile(srcPath, dst); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to move %s: %w", srcPath, err)
	}
	if err := os.Remove(srcPath); err != nil {
		return fmt.Errorf("failed to remove %s after copy: %w", srcPath, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Delete implements FileStore.
func (s *LocalFileStore) Delete(_ context.Context, dir, name string) error {
	err := os.Remove(s.path(dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s/%s: %w", dir, name, err)
	}
	return nil
}

// Exists implements FileStore.
func (s *LocalFileStore) Exists(_ context.Context, dir, name string) (bool, error) {
	_, err := os.Stat(s.path(dir, name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %s/%s: %w", dir, name, err)
	}
}

// Open implements FileStore.
func (s *LocalFileStore) Open(_ context.Context, dir, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open %s/%s: %w", dir, name, err)
	}
	return f, nil
}
