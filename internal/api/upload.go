package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
)

// uploadField is the multipart form field carrying the image.
const uploadField = "file"

// multipartOverhead is the allowance for headers and boundaries on top of
// the file itself.
const multipartOverhead = 1 << 20

// Uploader streams multipart image uploads into a temporary directory.
type Uploader struct {
	tempDir  string
	maxBytes int64
	logger   *slog.Logger
}

// NewUploader creates an Uploader. maxBytes <= 0 means asset.DefaultMaxUploadBytes.
func NewUploader(tempDir string, maxBytes int64, logger *slog.Logger) *Uploader {
	if maxBytes <= 0 {
		maxBytes = asset.DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		tempDir:  tempDir,
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "uploader")),
	}
}

// Receive writes the "file" part of a multipart request to a temp file and
// validates it. The caller must call Discard on the returned upload once
// done; after a successful move it is a no-op.
func (u *Uploader) Receive(w http.ResponseWriter, r *http.Request) (asset.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return asset.Upload{}, domain.NewValidationError("File is required")
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return asset.Upload{}, domain.NewValidationError("File is required")
		}
		if err != nil {
			return asset.Upload{}, u.readError(err)
		}
		if part.FormName() != uploadField || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		upload, err := u.store(r, part.FileName(), part)
		_ = part.Close()
		if err != nil {
			return asset.Upload{}, err
		}
		if err := asset.ValidateUpload(upload, u.maxBytes); err != nil {
			u.Discard(r, upload)
			return asset.Upload{}, err
		}
		return upload, nil
	}
}

func (u *Uploader) store(r *http.Request, originalName string, src io.Reader) (asset.Upload, error) {
	if err := os.MkdirAll(u.tempDir, 0o755); err != nil {
		return asset.Upload{}, domain.NewInternalError("failed to store upload", err)
	}
	f, err := os.CreateTemp(u.tempDir, "upload-*")
	if err != nil {
		return asset.Upload{}, domain.NewInternalError("failed to store upload", err)
	}
	upload := asset.Upload{TempPath: f.Name(), OriginalName: originalName}

	// One byte past the limit is enough to reject the file.
	n, copyErr := io.Copy(f, io.LimitReader(src, u.maxBytes+1))
	closeErr := f.Close()
	upload.Size = n

	if copyErr != nil {
		u.Discard(r, upload)
		return asset.Upload{}, u.readError(copyErr)
	}
	if closeErr != nil {
		u.Discard(r, upload)
		return asset.Upload{}, domain.NewInternalError("failed to store upload", closeErr)
	}
	return upload, nil
}

func (u *Uploader) readError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.NewValidationError(fmt.Sprintf("File size must be less than %dMB", u.maxBytes>>20))
	}
	return domain.NewValidationError("Invalid multipart body")
}

// Discard removes the temp file of upload if it still exists.
func (u *Uploader) Discard(r *http.Request, upload asset.Upload) {
	if upload.TempPath == "" {
		return
	}
	if err := os.Remove(upload.TempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.FromContextOrDefault(r.Context(), u.logger).Warn("failed to remove temp upload",
			slog.String("error", err.Error()))
	}
}
