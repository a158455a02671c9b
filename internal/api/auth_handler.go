package api

import (
	"log/slog"
	"net/http"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/shared"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/auth"
)

// AuthHandler handles login.
type AuthHandler struct {
	identity auth.IdentityService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(identity auth.IdentityService, logger *slog.Logger) *AuthHandler {
	if identity == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("identity service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		identity: identity,
		logger:   logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles POST /auth.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.ValidationMessage(err))
		return
	}

	result, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("login succeeded", slog.String("user_id", result.User.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
