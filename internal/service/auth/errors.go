package auth

import "errors"

// Token codec errors. The Authenticator folds all of them into an
// authentication error; they stay distinct for logging and tests.
var (
	// ErrTokenInvalid indicates a malformed token, a bad signature, an
	// unexpected algorithm or unusable claims.
	ErrTokenInvalid = errors.New("invalid authentication token")

	// ErrTokenExpired indicates the token's exp is in the past.
	ErrTokenExpired = errors.New("authentication token has expired")

	// ErrTokenAudienceMismatch indicates the aud claim is not the configured audience.
	ErrTokenAudienceMismatch = errors.New("authentication token audience mismatch")

	// ErrTokenIssuerMismatch indicates the iss claim is not the configured issuer.
	ErrTokenIssuerMismatch = errors.New("authentication token issuer mismatch")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWeakSecret indicates the signing secret is shorter than MinSecretLength.
	ErrWeakSecret = errors.New("jwt secret must be at least 32 characters")
)
