//go:build integration

// Package testdb provides utilities for database integration tests.
//
// Each test runs in its own transaction, which is rolled back when the test
// completes, so tests can share one migrated database without cleanup:
//
//	func TestMyFeature(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sqlx.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        // ...
//	    })
//	}
//
// Tests are skipped when DATABASE_URL is not set.
package testdb
