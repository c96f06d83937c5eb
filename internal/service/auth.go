package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hanriver/zipview/internal/domain"
	"github.com/hanriver/zipview/internal/store"
	"github.com/hanriver/zipview/pkg/cryptox"
	"github.com/hanriver/zipview/pkg/idx"
	"github.com/hanriver/zipview/pkg/jwtx"
	"github.com/hanriver/zipview/pkg/slogx"
)

// AuthService orchestrates login, refresh-token rotation and logout.
//
// Per-session state machine: NONE -> ACTIVE -> (ACTIVE | REVOKED), with
// REVOKED terminal. Rotation is single-use: presenting a refresh token that
// is not the most recent live one is treated as an attack signal, not a
// benign retry.
type AuthService struct {
	Verifier *CredentialVerifier
	Codec    *TokenCodec
	Store    store.Store
}

// Login verifies credentials, creates a fresh session at generation 0 and
// returns the initial token pair. The session row is inserted with the new
// refresh token's fingerprint already in place.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrAccountDisabled) {
			l.Info("login rejected", slog.String("username", username))
		}
		return nil, err
	}

	now := time.Now().UTC()
	sessionID := idx.New().String()

	refreshToken, refreshExp, err := s.Codec.IssueRefresh(u, sessionID, 0)
	if err != nil {
		return nil, err
	}

	session := domain.Session{
		ID:                 sessionID,
		UserID:             u.ID,
		RefreshFingerprint: cryptox.FingerprintToken(refreshToken),
		Generation:         0,
		Revoked:            false,
		CreatedAt:          now,
		LastRotatedAt:      now,
		ExpiresAt:          refreshExp,
	}
	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return nil, err
	}

	accessToken, accessExp, err := s.Codec.IssueAccess(u, sessionID)
	if err != nil {
		return nil, err
	}

	l.Info("login succeeded", slog.String("user_id", u.ID), slog.String("session_id", sessionID))

	return &domain.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		TokenType:       "Bearer",
		AccessExpiresAt: accessExp,
	}, nil
}

// Refresh validates the presented refresh token against its session and
// rotates it. The rotation itself is an atomic check-and-set: of two
// concurrent refreshes presenting the same token exactly one wins, the other
// observes a fingerprint mismatch and trips the replay policy.
//
// Replay policy: a mismatch means an already-rotated token was reused, so the
// whole session is revoked and ErrReplayDetected is returned. The caller must
// re-login; nothing auto-heals here.
func (s *AuthService) Refresh(ctx context.Context, presentedRefresh string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Codec.Decode(presentedRefresh, jwtx.TokenUseRefresh)
	if err != nil {
		return nil, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if u.Disabled {
		return nil, ErrAccountDisabled
	}

	// The presented token's gen claim equals the session's generation iff the
	// token is current, so the successor is issued at gen+1 up front and the
	// CAS below decides whether it becomes live.
	newRefresh, newRefreshExp, err := s.Codec.IssueRefresh(u, claims.SID, claims.Generation+1)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	presentedFP := cryptox.FingerprintToken(presentedRefresh)
	newFP := cryptox.FingerprintToken(newRefresh)

	var generation int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		g, err := tx.Sessions().RotateSession(ctx, claims.SID, presentedFP, newFP, newRefreshExp, now)
		if err != nil {
			return err
		}
		generation = g
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrFingerprintMismatch):
			// Replay. Kill the session before reporting.
			if revokeErr := s.Store.Sessions().RevokeSession(ctx, claims.SID); revokeErr != nil {
				l.Error("failed to revoke session after replay",
					slog.String("session_id", claims.SID), slog.Any("error", revokeErr))
			}
			l.Warn("refresh token replay detected, session revoked",
				slog.String("user_id", u.ID), slog.String("session_id", claims.SID))
			return nil, ErrReplayDetected
		case errors.Is(err, store.ErrRevoked):
			return nil, ErrSessionRevoked
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrSessionNotFound
		default:
			return nil, err
		}
	}

	accessToken, accessExp, err := s.Codec.IssueAccess(u, claims.SID)
	if err != nil {
		return nil, err
	}

	l.Debug("session rotated",
		slog.String("session_id", claims.SID), slog.Int64("generation", generation))

	return &domain.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    newRefresh,
		TokenType:       "Bearer",
		AccessExpiresAt: accessExp,
	}, nil
}

// Logout revokes a session by id. Idempotent: unknown or already-revoked
// sessions are not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.Store.Sessions().RevokeSession(ctx, sessionID)
}

// LogoutToken revokes the session a refresh token belongs to. The token must
// decode as a refresh token; expired or garbage tokens fail as such.
func (s *AuthService) LogoutToken(ctx context.Context, refreshToken string) error {
	claims, err := s.Codec.Decode(refreshToken, jwtx.TokenUseRefresh)
	if err != nil {
		return err
	}
	return s.Logout(ctx, claims.SID)
}
