package mocks

import "github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/auth"

// MockPasswordHasher implements auth.PasswordHasher for testing.
// The default hash is "hashed:" + password, which MockPasswordVerifier accepts.
type MockPasswordHasher struct {
	HashFn func(password string) (string, error)

	// HashCallCount tracks how many times Hash was called
	HashCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.HashCallCount++
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}
