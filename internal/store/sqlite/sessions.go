package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hanriver/zipview/internal/domain"
	"github.com/hanriver/zipview/internal/store"
)

type sessionsRepo struct {
	q querier
}

const sessionColumns = `id, user_id, refresh_fingerprint, generation, revoked, created_at, last_rotated_at, expires_at`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, refresh_fingerprint, generation, revoked, created_at, last_rotated_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.RefreshFingerprint, s.Generation, s.Revoked,
		s.CreatedAt, s.LastRotatedAt, s.ExpiresAt)
	return err
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	var s domain.Session
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.RefreshFingerprint,
		&s.Generation,
		&s.Revoked,
		&s.CreatedAt,
		&s.LastRotatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

// RotateSession performs the rotation check-and-set as a single conditional
// UPDATE. SQLite applies the statement atomically, so two concurrent rotations
// presenting the same fingerprint cannot both match the WHERE clause: the
// first one through replaces the fingerprint, the second affects zero rows
// and gets diagnosed below.
func (r *sessionsRepo) RotateSession(
	ctx context.Context,
	sessionID, presentedFingerprint, newFingerprint string,
	newExpiresAt, rotatedAt time.Time,
) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE sessions
		 SET refresh_fingerprint = ?, generation = generation + 1, last_rotated_at = ?, expires_at = ?
		 WHERE id = ? AND revoked = 0 AND refresh_fingerprint = ?`,
		newFingerprint, rotatedAt, newExpiresAt, sessionID, presentedFingerprint)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if n == 0 {
		return 0, r.diagnoseRotateFailure(ctx, sessionID)
	}

	var generation int64
	err = r.q.QueryRowContext(ctx,
		`SELECT generation FROM sessions WHERE id = ?`, sessionID).Scan(&generation)
	if err != nil {
		return 0, fmt.Errorf("read generation after rotate: %w", err)
	}
	return generation, nil
}

// diagnoseRotateFailure distinguishes why the conditional UPDATE matched
// nothing: missing row, revoked session, or a stale fingerprint (replay).
func (r *sessionsRepo) diagnoseRotateFailure(ctx context.Context, sessionID string) error {
	var revoked bool
	err := r.q.QueryRowContext(ctx,
		`SELECT revoked FROM sessions WHERE id = ?`, sessionID).Scan(&revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	if revoked {
		return store.ErrRevoked
	}
	return store.ErrFingerprintMismatch
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, sessionID string) error {
	// Idempotent on purpose: logout of an already-dead session is fine.
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET revoked = 1 WHERE id = ?`, sessionID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
