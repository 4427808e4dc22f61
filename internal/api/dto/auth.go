package dto

import "time"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=320"`
	Password   string `json:"password" validate:"required,max=72"`
}

// RefreshRequest carries a refresh token for /auth/refresh and /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// IntrospectRequest is the body of POST /auth/introspect.
type IntrospectRequest struct {
	Token     string `json:"token" validate:"required"`
	TokenType string `json:"token_type" validate:"required,oneof=access refresh"`
}

// TokenPairResponse is returned by login and refresh.
type TokenPairResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// IdentityResponse describes an authenticated subject.
type IdentityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IntrospectResponse reports token state. Inactive tokens only carry the reason.
type IntrospectResponse struct {
	Active    bool              `json:"active"`
	TokenType string            `json:"token_type"`
	Subject   *IdentityResponse `json:"subject,omitempty"`
	IssuedAt  *time.Time        `json:"issued_at,omitempty"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	Reason    string            `json:"reason,omitempty"`
}
