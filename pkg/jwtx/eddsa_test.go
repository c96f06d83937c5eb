package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/hanriver/zipview/pkg/cryptox"
	"github.com/hanriver/zipview/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *jwtx.Signer {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSigner("test-kid", pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())

	return signer
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := jwtx.NewVerifier(signer.Public(), "test-issuer", 0)

	now := time.Now().UTC()
	claims := jwtx.NewClaims("user-1", "sess-1", jwtx.TokenUseAccess, 0, time.Minute, "test-issuer", now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "sess-1", got.SID)
	require.Equal(t, jwtx.TokenUseAccess, got.TokenUse)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := jwtx.NewVerifier(signer.Public(), "test-issuer", 0)

	claims := jwtx.NewClaims("user-1", "sess-1", jwtx.TokenUseAccess, 0, time.Minute, "test-issuer", time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	t.Run("flipped payload byte", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)

		payload := []byte(parts[1])
		if payload[0] == 'A' {
			payload[0] = 'B'
		} else {
			payload[0] = 'A'
		}

		_, err := verifier.Verify(parts[0] + "." + string(payload) + "." + parts[2])
		require.Error(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		other := newTestSigner(t)
		wrongVerifier := jwtx.NewVerifier(other.Public(), "test-issuer", 0)

		_, err := wrongVerifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := jwtx.NewVerifier(signer.Public(), "test-issuer", time.Second)

	now := time.Now().UTC()
	claims := jwtx.NewClaims("user-1", "sess-1", jwtx.TokenUseAccess, 0, -time.Minute, "test-issuer", now.Add(-time.Minute))

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyExpiryWithinLeeway(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := jwtx.NewVerifier(signer.Public(), "test-issuer", 30*time.Second)

	// Expired 10s ago, inside the 30s leeway.
	now := time.Now().UTC()
	claims := jwtx.NewClaims("user-1", "sess-1", jwtx.TokenUseAccess, 0, 50*time.Second, "test-issuer", now.Add(-time.Minute))

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.NoError(t, err)
}

func TestVerifyIssuerMismatch(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := jwtx.NewVerifier(signer.Public(), "expected-issuer", 0)

	claims := jwtx.NewClaims("user-1", "sess-1", jwtx.TokenUseAccess, 0, time.Minute, "other-issuer", time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestRefreshClaimsCarryGeneration(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := jwtx.NewVerifier(signer.Public(), "test-issuer", 0)

	claims := jwtx.NewClaims("user-1", "sess-1", jwtx.TokenUseRefresh, 7, time.Hour, "test-issuer", time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, jwtx.TokenUseRefresh, got.TokenUse)
	require.Equal(t, int64(7), got.Generation)
	require.NoError(t, got.ValidateTokenUse(jwtx.TokenUseRefresh))
	require.ErrorIs(t, got.ValidateTokenUse(jwtx.TokenUseAccess), jwtx.ErrTokenUse)
}
