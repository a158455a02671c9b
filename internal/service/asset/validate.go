package asset

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
)

// DefaultMaxUploadBytes is the largest accepted image.
const DefaultMaxUploadBytes int64 = 5 << 20

var (
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
	}
	allowedContentTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
	}
)

// Upload is an image received from a client and written to a temporary file.
type Upload struct {
	TempPath     string
	OriginalName string
	Size         int64
}

// Extension returns the lower-cased extension of the original filename.
func (u Upload) Extension() string {
	return strings.ToLower(filepath.Ext(u.OriginalName))
}

// ValidateUpload checks size, extension and sniffed content type of u.
// maxBytes <= 0 means DefaultMaxUploadBytes.
func ValidateUpload(u Upload, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if u.Size > maxBytes {
		return domain.NewValidationError(fmt.Sprintf("File size must be less than %dMB", maxBytes>>20))
	}
	if !allowedExtensions[u.Extension()] {
		return domain.NewValidationError("File type must be jpg, jpeg, png or gif")
	}

	f, err := os.Open(u.TempPath)
	if err != nil {
		return domain.NewInternalError("failed to read upload", err)
	}
	defer func() { _ = f.Close() }()

	// http.DetectContentType reads max 512 bytes to determine MIME type
	buffer := make([]byte, 512)
	n, err := f.Read(buffer)
	if err != nil && err != io.EOF {
		return domain.NewInternalError("failed to read upload", err)
	}
	if detected := http.DetectContentType(buffer[:n]); !allowedContentTypes[detected] {
		return domain.NewValidationError("File content is not a supported image")
	}
	return nil
}
