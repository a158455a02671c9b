package api

import (
	"errors"
	"net/http"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/shared"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
)

// MapErrorToStatusCode maps an error's domain kind to an HTTP status code.
// Errors of no known kind are 500.
func MapErrorToStatusCode(err error) int {
	switch domain.KindOf(err) {
	case domain.ErrAuthentication:
		return http.StatusUnauthorized
	case domain.ErrAuthorization:
		return http.StatusForbidden
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	case domain.ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message a client may see for err.
// Internal errors always produce the same generic text.
func GetSafeErrorMessage(err error) string {
	if err == nil || MapErrorToStatusCode(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return domain.PublicMessage(err)
}

// HandleAPIError writes the response for an error returned by a service.
// The full error is logged redacted; only the safe message reaches the client.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	if errors.Is(err, domain.ErrAuthentication) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
