package service

import (
	"context"
	"errors"

	"github.com/hanriver/zipview/internal/domain"
	"github.com/hanriver/zipview/internal/store"
	"github.com/hanriver/zipview/pkg/cryptox"
)

// dummyHash is a well-formed argon2id hash verified when the username does
// not exist, so unknown-user and wrong-password take the same timing class.
// Its preimage was discarded; it never verifies successfully.
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=2$" +
	"qq1kKRfkcrYrKFyWAUcGSA$0T2GlnXHhVhVDX2+8XtHx+qdswWrHKJRY0V8ukVGLh0"

// CredentialVerifier checks a username/password pair against stored user
// records. It is stateless beyond the read-only user lookup.
type CredentialVerifier struct {
	Store store.Store
}

// Verify returns the user on success. Both "no such user" and "wrong
// password" collapse to ErrInvalidCredentials so callers cannot enumerate
// usernames. Disabled accounts fail with ErrAccountDisabled only after the
// password checks out.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (domain.User, error) {
	u, err := v.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn the same hashing work as a real verification.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	if u.Disabled {
		return domain.User{}, ErrAccountDisabled
	}

	return u, nil
}
