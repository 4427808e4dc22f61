package auth

import (
	"strings"
	"time"

	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/domain"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// KeySet holds the per-type HMAC secrets. It is read-only after construction.
type KeySet struct {
	access  []byte
	refresh []byte
}

// NewKeySet builds the key material. Both secrets are required; they may be equal,
// although distinct secrets keep access and refresh revocation scopes independent.
func NewKeySet(accessSecret, refreshSecret string) (*KeySet, error) {
	if strings.TrimSpace(accessSecret) == "" {
		return nil, configErr("AUTH_ACCESS_TOKEN_SECRET", "is required")
	}
	if strings.TrimSpace(refreshSecret) == "" {
		return nil, configErr("AUTH_REFRESH_TOKEN_SECRET", "is required")
	}
	return &KeySet{access: []byte(accessSecret), refresh: []byte(refreshSecret)}, nil
}

// Key returns the secret for the given token type.
func (k *KeySet) Key(t domain.TokenType) ([]byte, error) {
	if k == nil {
		return nil, configErr("signing keys", "are not configured")
	}
	switch t {
	case domain.TokenTypeAccess:
		return k.access, nil
	case domain.TokenTypeRefresh:
		return k.refresh, nil
	default:
		return nil, ErrInvalidSignature
	}
}

// TokenConfig carries lifetimes and claim checks shared by the issuer and verifier.
type TokenConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Leeway     time.Duration
}

// TokenConfigFrom adapts the environment configuration.
func TokenConfigFrom(cfg config.AuthConfig) TokenConfig {
	return TokenConfig{
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Issuer:     cfg.Issuer,
		Leeway:     cfg.Leeway,
	}
}

func (c TokenConfig) withDefaults() (TokenConfig, error) {
	if c.AccessTTL == 0 {
		c.AccessTTL = DefaultAccessTTL
	}
	if c.RefreshTTL == 0 {
		c.RefreshTTL = DefaultRefreshTTL
	}
	if c.AccessTTL < 0 {
		return c, configErr("AUTH_ACCESS_TOKEN_TTL", "must be positive")
	}
	if c.RefreshTTL < 0 {
		return c, configErr("AUTH_REFRESH_TOKEN_TTL", "must be positive")
	}
	if c.AccessTTL >= c.RefreshTTL {
		return c, configErr("AUTH_ACCESS_TOKEN_TTL", "must be shorter than the refresh token TTL")
	}
	if c.Leeway < 0 || c.Leeway > 5*time.Minute {
		return c, configErr("AUTH_TOKEN_LEEWAY", "must be between 0 and 5m")
	}
	return c, nil
}

// Option customizes issuer and verifier construction.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source. Tests use it to move past expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
