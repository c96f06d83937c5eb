package domain

import "time"

// TokenPair is what login and refresh return: a short-lived signed access
// token and the long-lived refresh token that replaces the presented one.
type TokenPair struct {
	AccessToken     string    `json:"access_token"`
	RefreshToken    string    `json:"refresh_token"`
	TokenType       string    `json:"token_type"` // always "Bearer"
	AccessExpiresAt time.Time `json:"access_expires_at"`
}
