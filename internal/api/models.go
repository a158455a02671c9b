package api

import (
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
)

// LoginRequest is the body of POST /auth.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=32,password"`
	Role     string `json:"role"     validate:"omitempty,oneof=user blogger"`
}

// CreatePostRequest is the body of POST /posts/create.
type CreatePostRequest struct {
	Title    string `json:"title"    validate:"required,min=3,max=255"`
	Content  string `json:"content"  validate:"required,min=10"`
	Category string `json:"category" validate:"required,oneof=books fiction history technology science politics"`
}

// UpdatePostRequest is the body of PATCH /posts/{id}. Absent fields are left unchanged.
type UpdatePostRequest struct {
	Title    *string `json:"title"    validate:"omitempty,min=3,max=255"`
	Content  *string `json:"content"  validate:"omitempty,min=10"`
	Category *string `json:"category" validate:"omitempty,oneof=books fiction history technology science politics"`
}

// Patch converts the request into a domain.PostPatch.
func (r UpdatePostRequest) Patch() domain.PostPatch {
	patch := domain.PostPatch{Title: r.Title, Content: r.Content}
	if r.Category != nil {
		c := domain.Category(*r.Category)
		patch.Category = &c
	}
	return patch
}

// Empty reports whether the request changes nothing.
func (r UpdatePostRequest) Empty() bool {
	return r.Title == nil && r.Content == nil && r.Category == nil
}
