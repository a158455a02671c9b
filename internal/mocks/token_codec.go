package mocks

import (
	"context"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/auth"
)

// MockTokenCodec implements auth.TokenCodec for testing
type MockTokenCodec struct {
	// SignFn allows test cases to mock the Sign behavior
	SignFn func(ctx context.Context, claims domain.Claims, opts auth.SignOptions) (string, error)

	// VerifyFn allows test cases to mock the Verify behavior
	VerifyFn func(ctx context.Context, token string, opts auth.VerifyOptions) (*domain.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token     string
	Err       error
	VerifyErr error
	Claims    *domain.Claims

	// SignedClaims records the claims of the last Sign call
	SignedClaims domain.Claims
	SignCount    int
}

var _ auth.TokenCodec = (*MockTokenCodec)(nil)

// Sign implements the auth.TokenCodec interface
func (m *MockTokenCodec) Sign(ctx context.Context, claims domain.Claims, opts auth.SignOptions) (string, error) {
	m.SignedClaims = claims
	m.SignCount++

	// If a custom function is provided, use it
	if m.SignFn != nil {
		return m.SignFn(ctx, claims, opts)
	}

	// Otherwise use the default values
	return m.Token, m.Err
}

// Verify implements the auth.TokenCodec interface
func (m *MockTokenCodec) Verify(ctx context.Context, token string, opts auth.VerifyOptions) (*domain.Claims, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token, opts)
	}
	return m.Claims, m.VerifyErr
}
