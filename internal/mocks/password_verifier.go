package mocks

import (
	"errors"
	"strings"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/auth"
)

// ErrPasswordMismatch is returned by MockPasswordVerifier on a failed comparison.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordVerifier implements auth.PasswordVerifier for testing.
// Without CompareFn it accepts hashes produced by MockPasswordHasher
// ("hashed:" + password), or anything when ShouldSucceed is set.
type MockPasswordVerifier struct {
	ShouldSucceed bool

	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	if stored, ok := strings.CutPrefix(hashedPassword, "hashed:"); ok && stored == password {
		return nil
	}
	return ErrPasswordMismatch
}
