package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/config"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the shortest HMAC secret the codec accepts.
const MinSecretLength = 32

// SignOptions configures token issuance.
type SignOptions struct {
	Secret   string
	Audience string
	Issuer   string
	TTL      time.Duration
}

// VerifyOptions configures token verification.
type VerifyOptions struct {
	Secret   string
	Audience string
	Issuer   string
}

// TokenCodec signs and verifies access tokens.
type TokenCodec interface {
	// Sign issues a token for claims.Subject, Email and Role with iat=now and
	// exp=now+TTL. Other claim fields are ignored.
	Sign(ctx context.Context, claims domain.Claims, opts SignOptions) (string, error)

	// Verify checks signature, algorithm, expiry, audience and issuer.
	// Returns ErrTokenInvalid, ErrTokenExpired, ErrTokenAudienceMismatch or
	// ErrTokenIssuerMismatch.
	Verify(ctx context.Context, token string, opts VerifyOptions) (*domain.Claims, error)
}

// TokenSettings bundles the configured secret, audience, issuer and lifetime.
type TokenSettings struct {
	Secret   string
	Audience string
	Issuer   string
	TTL      time.Duration
}

// NewTokenSettings validates cfg and converts it to TokenSettings.
func NewTokenSettings(cfg config.AuthConfig) (TokenSettings, error) {
	if len(cfg.JWTSecret) < MinSecretLength {
		return TokenSettings{}, ErrWeakSecret
	}
	if cfg.TokenLifetimeMinutes <= 0 {
		return TokenSettings{}, fmt.Errorf("token lifetime must be positive, got %d minutes", cfg.TokenLifetimeMinutes)
	}
	return TokenSettings{
		Secret:   cfg.JWTSecret,
		Audience: cfg.Audience,
		Issuer:   cfg.Issuer,
		TTL:      cfg.TokenLifetime(),
	}, nil
}

// SignOptions returns the options used to issue tokens.
func (s TokenSettings) SignOptions() SignOptions {
	return SignOptions{Secret: s.Secret, Audience: s.Audience, Issuer: s.Issuer, TTL: s.TTL}
}

// VerifyOptions returns the options used to verify tokens.
func (s TokenSettings) VerifyOptions() VerifyOptions {
	return VerifyOptions{Secret: s.Secret, Audience: s.Audience, Issuer: s.Issuer}
}

// hmacTokenCodec is an implementation of TokenCodec using HMAC-SHA256 signing.
type hmacTokenCodec struct {
	timeFunc func() time.Time // Injectable for testing
}

// tokenClaims defines the structure of JWT claims we use
type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Ensure hmacTokenCodec implements TokenCodec interface
var _ TokenCodec = (*hmacTokenCodec)(nil)

// NewTokenCodec creates a TokenCodec using the wall clock.
func NewTokenCodec() TokenCodec {
	return NewTokenCodecWithClock(time.Now)
}

// NewTokenCodecWithClock creates a TokenCodec reading time from now.
func NewTokenCodecWithClock(now func() time.Time) TokenCodec {
	return &hmacTokenCodec{timeFunc: now}
}

// Sign implements TokenCodec.
func (c *hmacTokenCodec) Sign(ctx context.Context, claims domain.Claims, opts SignOptions) (string, error) {
	log := logger.FromContextOrDefault(ctx, nil)

	if len(opts.Secret) < MinSecretLength {
		return "", ErrWeakSecret
	}
	if opts.TTL <= 0 {
		return "", fmt.Errorf("token TTL must be positive, got %s", opts.TTL)
	}

	now := c.timeFunc()
	registered := jwt.RegisteredClaims{
		Subject:   claims.Subject.String(),
		Issuer:    opts.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(opts.TTL)),
	}
	if opts.Audience != "" {
		registered.Audience = jwt.ClaimStrings{opts.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email:            claims.Email,
		Role:             string(claims.Role),
		RegisteredClaims: registered,
	})
	signed, err := token.SignedString([]byte(opts.Secret))
	if err != nil {
		log.Error("failed to sign access token",
			"error", err,
			"user_id", claims.Subject,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign access token with HMAC-SHA256: %w", err)
	}
	return signed, nil
}

// Verify implements TokenCodec.
func (c *hmacTokenCodec) Verify(ctx context.Context, tokenString string, opts VerifyOptions) (*domain.Claims, error) {
	log := logger.FromContextOrDefault(ctx, nil)

	if len(opts.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.timeFunc),
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(opts.Secret), nil
		},
		parserOpts...)
	if err != nil {
		mapped := mapJWTError(err)
		log.Debug("access token verification failed",
			"error", err,
			"reason", mapped.Error())
		return nil, mapped
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		log.Debug("token verification failed: invalid claims")
		return nil, ErrTokenInvalid
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		log.Debug("token verification failed: subject is not a UUID", "error", err)
		return nil, ErrTokenInvalid
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		log.Debug("token verification failed: unknown role", "role", claims.Role)
		return nil, ErrTokenInvalid
	}

	result := &domain.Claims{
		Subject:   subject,
		Email:     claims.Email,
		Role:      role,
		Issuer:    claims.Issuer,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if len(claims.Audience) > 0 {
		result.Audience = claims.Audience[0]
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}

// mapJWTError converts jwt validation errors to codec errors. Signature and
// format problems win over claim problems.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrTokenAudienceMismatch
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrTokenIssuerMismatch
	default:
		return ErrTokenInvalid
	}
}
