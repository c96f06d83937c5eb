package jwtx

import (
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates EdDSA-signed JWTs against the process signing key and
// gives you back the claims if they're legit.
type Verifier struct {
	pub    ed25519.PublicKey
	issuer string
	leeway time.Duration
}

// NewVerifier creates a verifier for the given Ed25519 public key.
// leeway allows small clock skew when validating exp/nbf.
func NewVerifier(pub ed25519.PublicKey, issuer string, leeway time.Duration) *Verifier {
	if leeway <= 0 {
		leeway = DefaultLeeway
	}
	return &Verifier{pub: pub, issuer: issuer, leeway: leeway}
}

// Verify validates the JWT string and returns its parsed Claims.
// Signature, exp/nbf (with leeway) and issuer are all enforced here; the
// token_use check is left to the caller since it knows what it expects.
func (v *Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithLeeway(v.leeway),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.pub, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, ErrMalformed
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
