package dto

import (
	"time"

	"github.com/campusvoice/issue-service/internal/domain"
)

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IdentityResponse describes the signed-in identity.
type IdentityResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// SessionResponse is returned after a successful login.
type SessionResponse struct {
	Identity IdentityResponse `json:"identity"`
	Auth     AuthResponse     `json:"auth"`
	Message  string           `json:"message"`
}
