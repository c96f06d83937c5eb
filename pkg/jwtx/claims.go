package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens are short-lived, refresh tokens live for
// days and are single-use per rotation.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 14 * 24 * time.Hour

	// DefaultLeeway is the clock-skew tolerance applied to exp/nbf checks.
	DefaultLeeway = 5 * time.Second
)

// Token use discriminator values for the "token_use" claim. An access token
// presented where a refresh token is required (or vice versa) is rejected.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrTokenUse   = errors.New("jwtx: token use mismatch")
)

// Claims carried by both access and refresh tokens. Refresh tokens
// additionally carry the session rotation generation.
type Claims struct {
	jwt.RegisteredClaims

	// SID is the session ID binding the token to a stored session.
	SID string `json:"sid,omitempty"`

	// TokenUse discriminates access tokens from refresh tokens.
	TokenUse string `json:"token_use"`

	// Generation is the session rotation counter at issue time.
	// Only meaningful on refresh tokens.
	Generation int64 `json:"gen,omitempty"`
}

// NewClaims builds minimally-correct claims for the given token use.
func NewClaims(
	subject, sid, tokenUse string,
	generation int64,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		SID:        sid,
		TokenUse:   tokenUse,
		Generation: generation,
	}
}

// ValidateIssuer checks if the issuer matches the expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateTokenUse ensures the token was issued for the expected purpose.
func (c *Claims) ValidateTokenUse(expected string) error {
	if c.TokenUse != expected {
		return ErrTokenUse
	}
	return nil
}

// ValidateExpiryWithLeeway checks exp/nbf with a small grace period for
// clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrMalformed
	}

	return nil
}
