package auth

import (
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/token-service/internal/domain"
)

// Claims describes the JWT payload shared by access and refresh tokens.
// The subject is the identity id and the jti is always set.
type Claims struct {
	Email     string           `json:"email"`
	Role      domain.Role      `json:"role"`
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Identity rebuilds the embedded principal.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{ID: c.Subject, Email: c.Email, Role: c.Role}
}

func (c *Claims) info() *domain.TokenInfo {
	info := &domain.TokenInfo{
		ID:       c.ID,
		Type:     c.TokenType,
		Identity: c.Identity(),
	}
	if c.IssuedAt != nil {
		info.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		info.ExpiresAt = c.ExpiresAt.Time
	}
	return info
}
