package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/shared"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/redact"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/auth"
)

// AuthMiddleware authenticates bearer tokens.
type AuthMiddleware struct {
	authenticator auth.Authenticator
	logger        *slog.Logger
}

// NewAuthMiddleware creates an AuthMiddleware.
func NewAuthMiddleware(authenticator auth.Authenticator, logger *slog.Logger) *AuthMiddleware {
	if authenticator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("authenticator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate verifies the "Authorization: Bearer <token>" header and
// stores the claims in the request context. Requests without a valid token
// get 401 and never reach next.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		token, ok := bearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrAuthentication) {
				log.Debug("rejected token", slog.String("error", redact.Error(err)))
				shared.RespondWithError(w, r, http.StatusUnauthorized, domain.PublicMessage(err))
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Internal server error", err)
			return
		}

		ctx := shared.WithClaims(r.Context(), claims)
		ctx = logger.WithLogger(ctx, log.With(slog.String("user_id", claims.Subject.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from the Authorization header. The scheme
// is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
