package domain

import "time"

// User is the credential record this service reads during login. Account
// lifecycle (registration, password resets) is owned by an external user
// service; we only ever look users up and verify hashes.
type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2id, PHC encoded
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
