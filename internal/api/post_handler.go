package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/shared"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
)

// PostHandler handles /posts routes.
type PostHandler struct {
	posts    service.PostService
	images   service.ImageService
	uploader *Uploader
	logger   *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(
	posts service.PostService,
	images service.ImageService,
	uploader *Uploader,
	logger *slog.Logger,
) *PostHandler {
	if posts == nil || images == nil || uploader == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("post handler dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostHandler{
		posts:    posts,
		images:   images,
		uploader: uploader,
		logger:   logger.With(slog.String("component", "post_handler")),
	}
}

// CreatePost handles POST /posts/create.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.ValidationMessage(err))
		return
	}

	post, err := h.posts.CreatePost(r.Context(), claimsFrom(r), service.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: domain.Category(req.Category),
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, post)
}

// ListPosts handles GET /posts.
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	page, err := h.posts.ListPosts(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, page)
}

// ListMyPosts handles GET /posts/user and GET /users/blogger/posts.
func (h *PostHandler) ListMyPosts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	page, err := h.posts.ListMyPosts(r.Context(), claimsFrom(r), filter)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, page)
}

// GetPost handles GET /posts/{id}.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	post, err := h.posts.GetPost(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, post)
}

// Recommendations handles GET /posts/{id}/recommendations?limit=n.
func (h *PostHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			HandleAPIError(w, r, domain.NewValidationError("limit must be a positive integer"))
			return
		}
	}

	related, err := h.posts.Recommendations(r.Context(), id, limit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, related)
}

// UpdatePost handles PATCH /posts/{id}.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req UpdatePostRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Empty() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "At least one field must be provided")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.ValidationMessage(err))
		return
	}

	post, err := h.posts.UpdatePost(r.Context(), claimsFrom(r), id, req.Patch())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, post)
}

// DeletePost handles DELETE /posts/{id}.
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	result, err := h.posts.DeletePost(r.Context(), claimsFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// UploadCover handles POST /posts/upload-cover/{postId}.
func (h *PostHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	postID, err := getPathUUID(r, "postId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	upload, err := h.uploader.Receive(w, r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	defer h.uploader.Discard(r, upload)

	result, err := h.posts.ReplaceCover(r.Context(), claimsFrom(r), postID, upload)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("cover replaced",
		slog.String("post_id", postID.String()),
		slog.String("filename", result.CoverImage))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ServeCover handles GET /posts/cover/{filename}.
func (h *PostHandler) ServeCover(w http.ResponseWriter, r *http.Request) {
	serveImage(w, r, h.images, asset.KindCover, h.logger)
}
