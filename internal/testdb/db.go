//go:build integration

package testdb

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/postgres"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
)

var migrateOnce sync.Once

// GetTestDatabaseURL returns DATABASE_URL, falling back to BLOG_DATABASE_URL.
func GetTestDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("BLOG_DATABASE_URL")
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// GetTestDBWithT opens a connection to the test database, applies the
// embedded migrations once per process and closes the connection on cleanup.
func GetTestDBWithT(t *testing.T) *sqlx.DB {
	t.Helper()

	if ShouldSkipDatabaseTest() {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	db, err := sqlx.Open("pgx", GetTestDatabaseURL())
	if err != nil {
		t.Fatalf("failed to open database connection: %v", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	var migrateErr error
	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(context.Background(), db.DB, "up", nil)
	})
	if migrateErr != nil {
		t.Fatalf("failed to apply migrations: %v", migrateErr)
	}

	return db
}
