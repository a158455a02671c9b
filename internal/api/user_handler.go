package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/shared"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
)

// UserHandler handles /users routes.
type UserHandler struct {
	users    service.UserService
	saved    service.SavedPostService
	images   service.ImageService
	uploader *Uploader
	logger   *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(
	users service.UserService,
	saved service.SavedPostService,
	images service.ImageService,
	uploader *Uploader,
	logger *slog.Logger,
) *UserHandler {
	if users == nil || saved == nil || images == nil || uploader == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("user handler dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		users:    users,
		saved:    saved,
		images:   images,
		uploader: uploader,
		logger:   logger.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST /users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.ValidationMessage(err))
		return
	}

	profile, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, profile)
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.users.ListUsers(r.Context(), claimsFrom(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profiles)
}

// GetUser handles GET /users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	profile, err := h.users.GetUser(r.Context(), claimsFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// ListSavedPosts handles GET /users/saved-posts.
func (h *UserHandler) ListSavedPosts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	page, err := h.saved.ListSavedPosts(r.Context(), claimsFrom(r), filter)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, page)
}

// SavePost handles POST /users/saved-posts/{postId}.
func (h *UserHandler) SavePost(w http.ResponseWriter, r *http.Request) {
	postID, err := getPathUUID(r, "postId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	result, err := h.saved.SavePost(r.Context(), claimsFrom(r), postID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// UnsavePost handles DELETE /users/saved-posts/{postId}.
func (h *UserHandler) UnsavePost(w http.ResponseWriter, r *http.Request) {
	postID, err := getPathUUID(r, "postId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := h.saved.UnsavePost(r.Context(), claimsFrom(r), postID); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Post removed from saved posts"})
}

// UploadProfileImage handles POST /users/upload-profile.
func (h *UserHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	upload, err := h.uploader.Receive(w, r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	defer h.uploader.Discard(r, upload)

	result, err := h.users.ReplaceProfileImage(r.Context(), claimsFrom(r), upload)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("profile image replaced",
		slog.String("filename", result.ProfilePicture))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ServeProfileImage handles GET /users/profile/{filename}.
func (h *UserHandler) ServeProfileImage(w http.ResponseWriter, r *http.Request) {
	serveImage(w, r, h.images, asset.KindProfile, h.logger)
}
