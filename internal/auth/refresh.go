package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/token-service/internal/domain"
)

// RevocationStore tracks revoked token ids until their natural expiry.
type RevocationStore interface {
	// Revoke marks jti revoked until expiresAt. It reports whether this call did the revoking,
	// which lets two concurrent refreshes of one token race safely.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RefreshOption customizes a RefreshCoordinator.
type RefreshOption func(*RefreshCoordinator)

// WithRevocationStore enables revocation checks on refresh and revocation on logout.
func WithRevocationStore(store RevocationStore) RefreshOption {
	return func(c *RefreshCoordinator) {
		c.revocations = store
	}
}

// WithRotation revokes each refresh token once it has been exchanged. Requires a revocation store.
func WithRotation(enabled bool) RefreshOption {
	return func(c *RefreshCoordinator) {
		c.rotate = enabled
	}
}

// RefreshCoordinator exchanges a refresh token for a fresh token pair.
//
// Without a revocation store refresh tokens are stateless bearer credentials valid
// until they expire.
type RefreshCoordinator struct {
	issuer      *Issuer
	verifier    *Verifier
	revocations RevocationStore
	rotate      bool
}

// NewRefreshCoordinator wires the issuer and verifier together.
func NewRefreshCoordinator(issuer *Issuer, verifier *Verifier, opts ...RefreshOption) (*RefreshCoordinator, error) {
	if issuer == nil || verifier == nil {
		return nil, configErr("refresh coordinator", "requires an issuer and a verifier")
	}
	c := &RefreshCoordinator{issuer: issuer, verifier: verifier}
	for _, opt := range opts {
		opt(c)
	}
	if c.rotate && c.revocations == nil {
		return nil, configErr("AUTH_REFRESH_ROTATION", "requires a revocation store")
	}
	return c, nil
}

// Rotates reports whether exchanged refresh tokens are revoked.
func (c *RefreshCoordinator) Rotates() bool {
	return c.rotate
}

// Refresh verifies rawRefreshToken and mints a new pair for its identity.
// Verifier failures are returned unchanged; the caller must re-authenticate.
func (c *RefreshCoordinator) Refresh(ctx context.Context, rawRefreshToken string) (domain.TokenPair, error) {
	info, err := c.verifier.Inspect(rawRefreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if c.revocations != nil {
		revoked, err := c.revocations.IsRevoked(ctx, info.ID)
		if err != nil {
			return domain.TokenPair{}, fmt.Errorf("check refresh revocation: %w", err)
		}
		if revoked {
			return domain.TokenPair{}, ErrRevoked
		}
	}

	if c.rotate {
		first, err := c.revocations.Revoke(ctx, info.ID, info.ExpiresAt)
		if err != nil {
			return domain.TokenPair{}, fmt.Errorf("rotate refresh token: %w", err)
		}
		if !first {
			return domain.TokenPair{}, ErrRevoked
		}
	}

	return c.issuer.IssueTokenPair(info.Identity)
}

// Revoke invalidates a refresh token ahead of its expiry. Without a revocation
// store it only validates the token. A token that was already revoked yields ErrRevoked.
func (c *RefreshCoordinator) Revoke(ctx context.Context, rawRefreshToken string) (*domain.TokenInfo, error) {
	info, err := c.verifier.Inspect(rawRefreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	if c.revocations == nil {
		return info, nil
	}
	first, err := c.revocations.Revoke(ctx, info.ID, info.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	if !first {
		return nil, ErrRevoked
	}
	return info, nil
}
