package domain

import "time"

// Role is an application-defined authorization role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated principal embedded in every token.
type Identity struct {
	ID    string
	Email string
	Role  Role
}

// CredentialStatus represents lifecycle states for a credential record.
type CredentialStatus string

const (
	CredentialStatusActive   CredentialStatus = "ACTIVE"
	CredentialStatusDisabled CredentialStatus = "DISABLED"
)

// CredentialRecord maps a login identifier to a password hash and identity attributes.
type CredentialRecord struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Status       CredentialStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity projects the record onto the attributes embedded in tokens.
func (c *CredentialRecord) Identity() Identity {
	return Identity{ID: c.ID, Email: c.Email, Role: c.Role}
}

// Active reports whether the record may authenticate.
func (c *CredentialRecord) Active() bool {
	return c.Status == "" || c.Status == CredentialStatusActive
}
