package mocks

import (
	"context"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
)

// MockTransactor implements store.Transactor by calling fn with a nil
// transaction. Store mocks ignore the transaction passed to WithTx.
type MockTransactor struct {
	// Err, when set, is returned instead of running fn
	Err error

	// CallCount tracks how many transactions were started
	CallCount int
}

var _ store.Transactor = (*MockTransactor)(nil)

// Transact implements the store.Transactor interface
func (m *MockTransactor) Transact(ctx context.Context, fn store.TxFn) error {
	m.CallCount++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, nil)
}
