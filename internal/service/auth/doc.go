// Package auth implements identity for the blog: HMAC-SHA256 access tokens,
// bcrypt password hashing and verification, credential login and bearer
// token authentication.
package auth
