package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/shared"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service"
)

// claimsFrom returns the caller's claims set by the auth middleware, or nil.
func claimsFrom(r *http.Request) *domain.Claims {
	return shared.ClaimsFromContext(r.Context())
}

// getPathUUID parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, domain.NewValidationError(paramName + " is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName + " must be a valid UUID")
	}
	return id, nil
}

// positiveInt parses an optional query parameter. Absent means 0, which the
// services read as "use the default"; explicit values must be >= 1.
func positiveInt(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, domain.NewValidationError(name + " must be a positive integer")
	}
	return n, nil
}

// parseFilter reads page, limit, category, search and order from the query string.
func parseFilter(r *http.Request) (service.Filter, error) {
	q := r.URL.Query()

	page, err := positiveInt(q, "page")
	if err != nil {
		return service.Filter{}, err
	}
	limit, err := positiveInt(q, "limit")
	if err != nil {
		return service.Filter{}, err
	}

	return service.Filter{
		Page:     page,
		Limit:    limit,
		Category: domain.Category(q.Get("category")),
		Search:   q.Get("search"),
		Order:    domain.SortOrder(strings.ToLower(q.Get("order"))),
	}, nil
}
