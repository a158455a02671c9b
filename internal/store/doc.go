// Package store defines the persistence interfaces the blog services depend on:
// users, posts and the saved-post relation. Implementations live under
// internal/platform (postgres). The package also holds the shared store
// errors and the transaction helper built on sqlx.
package store
