// Package mocks provides centralized mock implementations for testing.
//
// Store mocks are map-backed fakes whose behavior can be overridden per
// method through function fields:
//
//	users := mocks.NewMockUserStore()
//	users.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	    return nil, errors.New("connection reset")
//	}
//
// MockPostStore joins authors from a MockUserStore and answers SavedBy
// queries from a MockSavedPostStore, so service tests can run whole flows
// without a database.
package mocks
