package service

import "errors"

// Authentication failure taxonomy. All of these are terminal for the current
// request: the caller must re-login, retrying with the same inputs will not
// succeed. Storage errors outside this set are transient and retryable.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountDisabled    = errors.New("account_disabled")

	ErrTokenInvalid      = errors.New("token_invalid")
	ErrTokenExpired      = errors.New("token_expired")
	ErrTokenTypeMismatch = errors.New("token_type_mismatch")

	ErrSessionNotFound = errors.New("session_not_found")
	ErrSessionRevoked  = errors.New("session_revoked")

	// ErrReplayDetected reports that an already-rotated refresh token was
	// presented again. The session has been revoked as a precaution.
	ErrReplayDetected = errors.New("replay_detected")
)
