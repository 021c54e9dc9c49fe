package dto

import (
	"time"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

// LoginRequest payload for staff login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the credential bundle.
type LoginResponse struct {
	Role      domain.Role     `json:"role"`
	Name      string          `json:"name"`
	Language  domain.Language `json:"language"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}
