package auth

import (
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/token-service/internal/domain"
)

// Issuer mints signed access and refresh tokens for an already authenticated identity.
type Issuer struct {
	keys       *KeySet
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	now        func() time.Time
}

// NewIssuer builds an issuer. Zero TTLs fall back to 15 minutes and 7 days.
func NewIssuer(keys *KeySet, cfg TokenConfig, opts ...Option) (*Issuer, error) {
	if keys == nil {
		return nil, configErr("signing keys", "are not configured")
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Issuer{
		keys:       keys,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		issuer:     cfg.Issuer,
		now:        o.now,
	}, nil
}

// IssueTokenPair mints an access token and a refresh token for the same identity.
// The only failure is a ConfigurationError.
func (i *Issuer) IssueTokenPair(identity domain.Identity) (domain.TokenPair, error) {
	if i == nil || i.keys == nil {
		return domain.TokenPair{}, configErr("signing keys", "are not configured")
	}

	now := i.now()
	access, accessExp, err := i.sign(identity, domain.TokenTypeAccess, now, i.accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, refreshExp, err := i.sign(identity, domain.TokenTypeRefresh, now, i.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		Identity:         identity,
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (i *Issuer) sign(identity domain.Identity, tokenType domain.TokenType, now time.Time, ttl time.Duration) (string, time.Time, error) {
	key, err := i.keys.Key(tokenType)
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := now.Add(ttl)
	claims := &Claims{
		Email:     identity.Email,
		Role:      identity.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.ID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		// HMAC signing only fails on an unusable key.
		return "", time.Time{}, &ConfigurationError{Setting: string(tokenType) + " signing key", Reason: fmt.Sprintf("is unusable: %v", err)}
	}
	return signed, claims.ExpiresAt.Time, nil
}
