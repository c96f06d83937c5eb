package cryptox_test

import (
	"testing"

	"github.com/hanriver/zipview/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	t.Run("correct password", func(t *testing.T) {
		require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := cryptox.VerifyPassword("incorrect horse", hash)
		require.ErrorIs(t, err, cryptox.ErrPasswordMismatch)
	})

	t.Run("salts differ between hashes", func(t *testing.T) {
		other, err := cryptox.HashPassword("correct horse battery staple")
		require.NoError(t, err)
		require.NotEqual(t, hash, other)
		require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", other))
	})
}

func TestVerifyPasswordRejectsBadFormat(t *testing.T) {
	t.Parallel()

	t.Run("not PHC format", func(t *testing.T) {
		require.Error(t, cryptox.VerifyPassword("pw", "plainhash"))
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		require.Error(t, cryptox.VerifyPassword("pw", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"))
	})

	t.Run("bad salt encoding", func(t *testing.T) {
		require.Error(t, cryptox.VerifyPassword("pw", "$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA"))
	})
}
