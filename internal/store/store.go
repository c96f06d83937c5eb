package store

import (
	"context"
	"errors"
	"time"

	"github.com/hanriver/zipview/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrRevoked reports a rotation attempt on a revoked session.
	ErrRevoked = errors.New("store: session revoked")

	// ErrFingerprintMismatch reports that the presented refresh fingerprint
	// is not the session's current one. This is the replay signal.
	ErrFingerprintMismatch = errors.New("store: fingerprint mismatch")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Used by seeding and tests; account lifecycle lives elsewhere.
	CreateUser(ctx context.Context, u domain.User) error

	// SetUserDisabled flips the disabled flag and bumps updated_at.
	SetUserDisabled(ctx context.Context, userID string, disabled bool) error
}

type Sessions interface {
	// CreateSession inserts a new session row with generation 0 and the
	// initial refresh fingerprint already set.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByID returns a session by id.
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// RotateSession is the core protocol operation: an atomic check-and-set
	// that replaces the stored fingerprint and increments the generation,
	// but only if the session is live and the presented fingerprint matches
	// the stored one. Exactly one of two concurrent rotations with the same
	// presented fingerprint can win; the loser observes ErrFingerprintMismatch.
	//
	// Returns the new generation on success. Fails with ErrNotFound,
	// ErrRevoked, or ErrFingerprintMismatch.
	RotateSession(
		ctx context.Context,
		sessionID, presentedFingerprint, newFingerprint string,
		newExpiresAt, rotatedAt time.Time,
	) (int64, error)

	// RevokeSession sets revoked=1. Idempotent: revoking an already-revoked
	// or unknown session is not an error.
	RevokeSession(ctx context.Context, sessionID string) error

	// DeleteExpiredSessions is housekeeping for sessions whose refresh
	// token expired without being rotated or revoked.
	DeleteExpiredSessions(ctx context.Context) error
}
