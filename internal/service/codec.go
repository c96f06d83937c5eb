package service

import (
	"errors"
	"time"

	"github.com/hanriver/zipview/internal/domain"
	"github.com/hanriver/zipview/pkg/jwtx"
)

// TokenCodec issues and decodes the signed access/refresh token pair. It is
// stateless: validity of an access token is proven by signature and expiry
// alone, refresh tokens are additionally checked against the session store
// by the auth service.
type TokenCodec struct {
	Signer     *jwtx.Signer
	Verifier   *jwtx.Verifier
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssueAccess signs a short-lived access token for the user bound to the
// given session.
func (c *TokenCodec) IssueAccess(u domain.User, sessionID string) (string, time.Time, error) {
	now := time.Now().UTC()
	claims := jwtx.NewClaims(u.ID, sessionID, jwtx.TokenUseAccess, 0, c.AccessTTL, c.Issuer, now)

	token, err := c.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// IssueRefresh signs a long-lived refresh token carrying the session id and
// the rotation generation it was issued at.
func (c *TokenCodec) IssueRefresh(u domain.User, sessionID string, generation int64) (string, time.Time, error) {
	now := time.Now().UTC()
	claims := jwtx.NewClaims(u.ID, sessionID, jwtx.TokenUseRefresh, generation, c.RefreshTTL, c.Issuer, now)

	token, err := c.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// Decode verifies signature, expiry (with leeway) and issuer, then checks the
// token_use discriminator against what the caller expects.
func (c *TokenCodec) Decode(token, expectedUse string) (jwtx.Claims, error) {
	claims, err := c.Verifier.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			return jwtx.Claims{}, ErrTokenExpired
		default:
			return jwtx.Claims{}, ErrTokenInvalid
		}
	}

	if err := claims.ValidateTokenUse(expectedUse); err != nil {
		return jwtx.Claims{}, ErrTokenTypeMismatch
	}

	return claims, nil
}
