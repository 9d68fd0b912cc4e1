package dto

import "time"

// TokenRequest payload for POST /auth/token.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse returns issued token info.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
