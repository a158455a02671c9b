package api

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
)

// serveImage streams the image named by the {filename} path parameter.
func serveImage(w http.ResponseWriter, r *http.Request, images service.ImageService, kind asset.Kind, log *slog.Logger) {
	name := filepath.Base(chi.URLParam(r, "filename"))

	rc, err := images.OpenImage(r.Context(), kind, name)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	defer func() { _ = rc.Close() }()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logger.FromContextOrDefault(r.Context(), log).Warn("failed to stream image",
			slog.String("filename", name),
			slog.String("error", err.Error()))
	}
}
