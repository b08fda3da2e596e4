package auth

import "github.com/google/uuid"

// User is a registered account. PasswordHash is a bcrypt hash; the clear
// password never leaves the register/login handlers.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	Roles        []string
}

// RegisterRequest creates an account. Role is optional; "manager" grants the
// elevated capability set.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest exchanges credentials for an access token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the signed access token.
type TokenResponse struct {
	Token string `json:"token"`
}
