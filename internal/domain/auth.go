package domain

import "time"

// TokenType discriminates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Valid reports whether t is a known token type.
func (t TokenType) Valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// ParseTokenType maps a wire value to a TokenType.
func ParseTokenType(s string) (TokenType, bool) {
	t := TokenType(s)
	return t, t.Valid()
}

// TokenPair is minted together at login and on every refresh. Both tokens carry the same identity.
type TokenPair struct {
	Identity         Identity
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenInfo describes a verified token without its raw value.
type TokenInfo struct {
	ID        string
	Type      TokenType
	Identity  Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}
