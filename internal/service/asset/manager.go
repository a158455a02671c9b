package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
)

// imageNotFoundMessage is the client-facing message for missing images.
const imageNotFoundMessage = "Image not found"

// PersistFunc stores the new filename on the owning entity.
type PersistFunc func(ctx context.Context, filename string) error

// ReplaceRequest describes one image replacement.
type ReplaceRequest struct {
	Kind Kind
	// Previous is the filename currently referenced by the entity, if any.
	Previous string
	Upload   Upload
	Persist  PersistFunc
}

// Manager owns the temp -> final -> delete-old lifecycle of uploaded images.
type Manager struct {
	files  FileStore
	logger *slog.Logger
	now    func() time.Time
	randN  func(n int64) int64
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used for filenames.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRandom sets the source of the random filename component.
func WithRandom(randN func(n int64) int64) Option {
	return func(m *Manager) { m.randN = randN }
}

// NewManager creates a Manager storing images in files.
func NewManager(files FileStore, logger *slog.Logger, opts ...Option) *Manager {
	if files == nil {
		panic("files cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		files:  files,
		logger: logger.With(slog.String("component", "asset_manager")),
		now:    time.Now,
		randN:  rand.Int64N,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Filename builds a fresh name for an image of kind k uploaded as originalName:
// prefix, unix milliseconds, a random number below 1e9 and the lower-cased extension.
func (m *Manager) Filename(k Kind, originalName string) string {
	ext := Upload{OriginalName: originalName}.Extension()
	return fmt.Sprintf("%s%d-%d%s", k.Prefix(), m.now().UnixMilli(), m.randN(1_000_000_000), ext)
}

// Replace moves the upload into place, deletes the previous image and calls
// Persist with the new filename, which it then returns.
//
// A failed move discards the temp file and leaves the entity untouched.
// A failure deleting the previous image is logged and ignored. A Persist
// error is returned as-is and the new file stays on disk.
func (m *Manager) Replace(ctx context.Context, req ReplaceRequest) (string, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if !req.Kind.Valid() {
		return "", domain.NewValidationError(fmt.Sprintf("unknown image kind %q", req.Kind))
	}
	if req.Persist == nil {
		return "", domain.NewInternalError("failed to store image", errors.New("persist function is nil"))
	}
	dir := req.Kind.Dir()

	if err := m.files.EnsureDirectory(ctx, dir); err != nil {
		m.discardTemp(ctx, req.Upload.TempPath)
		log.Error("failed to prepare image directory",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return "", domain.NewInternalError("failed to store image", err)
	}

	name := m.Filename(req.Kind, req.Upload.OriginalName)
	if err := m.files.Move(ctx, req.Upload.TempPath, dir, name); err != nil {
		m.discardTemp(ctx, req.Upload.TempPath)
		log.Error("failed to move uploaded image",
			slog.String("filename", name),
			slog.String("error", err.Error()))
		return "", domain.NewInternalError("failed to store image", err)
	}

	if req.Previous != "" {
		m.Remove(ctx, req.Kind, req.Previous)
	}

	if err := req.Persist(ctx, name); err != nil {
		log.Warn("image stored but reference not saved",
			slog.String("filename", name),
			slog.String("error", err.Error()))
		return "", err
	}

	log.Info("image replaced",
		slog.String("kind", string(req.Kind)),
		slog.String("filename", name))
	return name, nil
}

// Remove deletes the image name of kind k if it exists. Failures are logged
// and otherwise ignored.
func (m *Manager) Remove(ctx context.Context, k Kind, name string) {
	log := logger.FromContextOrDefault(ctx, m.logger)
	name = filepath.Base(name)
	dir := k.Dir()

	exists, err := m.files.Exists(ctx, dir, name)
	if err != nil {
		log.Warn("failed to check image before removal",
			slog.String("filename", name),
			slog.String("error", err.Error()))
		return
	}
	if !exists {
		return
	}
	if err := m.files.Delete(ctx, dir, name); err != nil {
		log.Warn("failed to remove image",
			slog.String("filename", name),
			slog.String("error", err.Error()))
	}
}

// Open returns the stored image name of kind k. Only the base name of name
// is used, so callers cannot reach outside the kind's directory.
func (m *Manager) Open(ctx context.Context, k Kind, name string) (io.ReadCloser, error) {
	name = filepath.Base(name)
	if !k.Valid() || name == "." || name == ".." || name == string(filepath.Separator) {
		return nil, domain.NewNotFoundError(imageNotFoundMessage)
	}

	rc, err := m.files.Open(ctx, k.Dir(), name)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, domain.NewNotFoundError(imageNotFoundMessage)
		}
		logger.FromContextOrDefault(ctx, m.logger).Error("failed to open image",
			slog.String("filename", name),
			slog.String("error", err.Error()))
		return nil, domain.NewInternalError("failed to open image", err)
	}
	return rc, nil
}

func (m *Manager) discardTemp(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.FromContextOrDefault(ctx, m.logger).Warn("failed to discard temp upload",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}
