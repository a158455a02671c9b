package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/shared"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewAuthenticationError("Unauthorized"), http.StatusUnauthorized},
		{domain.NewAuthorizationError("You are not allowed to access this route"), http.StatusForbidden},
		{domain.NewNotFoundError("Post not found"), http.StatusNotFound},
		{domain.NewConflictError("Email already exists"), http.StatusConflict},
		{domain.NewValidationError("limit must be between 1 and 50"), http.StatusBadRequest},
		{domain.NewInternalError("failed to store image", errors.New("disk full")), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", domain.NewNotFoundError("User not found")), http.StatusNotFound},
		{errors.New("untyped"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err), "%v", tt.err)
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "Post not found", GetSafeErrorMessage(domain.NewNotFoundError("Post not found")))
	assert.Equal(t, "Internal server error", GetSafeErrorMessage(nil))
	assert.Equal(t, "Internal server error",
		GetSafeErrorMessage(domain.NewInternalError("failed to move /srv/uploads/posts/a.png", errors.New("EACCES"))))
	assert.Equal(t, "Internal server error", GetSafeErrorMessage(errors.New("pq: relation posts does not exist")))
}

func TestHandleAPIError(t *testing.T) {
	var logs bytes.Buffer
	l := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req = req.WithContext(logger.WithLogger(shared.SetTraceID(req.Context()), l))

	w := httptest.NewRecorder()
	HandleAPIError(w, req, domain.NewInternalError("query failed", errors.New("dial postgres://blog:hunter22@db failed")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp.Error)
	assert.Equal(t, shared.GetTraceID(req.Context()), resp.TraceID)
	assert.NotContains(t, w.Body.String(), "hunter22")
	assert.NotContains(t, logs.String(), "hunter22")
	assert.Contains(t, logs.String(), "level=ERROR")

	logs.Reset()
	w = httptest.NewRecorder()
	HandleAPIError(w, req, domain.NewAuthenticationError("Email or password invalid"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, logs.String(), "level=WARN", "authentication failures are logged at warn")
}
