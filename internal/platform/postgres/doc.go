// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. Queries run
// through sqlx on the pgx stdlib driver, driver errors are mapped to store
// errors, and the schema is managed by embedded goose migrations.
package postgres
