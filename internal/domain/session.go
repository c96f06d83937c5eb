package domain

import "time"

// Session is the refresh-token lineage for one login on one device. It is the
// only mutable persisted entity: created at login, rotated on every refresh,
// revoked on logout or detected replay.
//
// RefreshFingerprint always holds the fingerprint of the most recently issued
// refresh token for this session. Generation strictly increases on every
// successful rotation. A revoked session never refreshes again.
type Session struct {
	ID                 string
	UserID             string
	RefreshFingerprint string // base64url SHA-256 of the active refresh token
	Generation         int64
	Revoked            bool
	CreatedAt          time.Time
	LastRotatedAt      time.Time
	ExpiresAt          time.Time // tracks the active refresh token's expiry
}
