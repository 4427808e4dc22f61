package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/domain"
)

func TestNewKeySet_MissingSecrets(t *testing.T) {
	tests := []struct {
		name    string
		access  string
		refresh string
		setting string
	}{
		{"missing access", "", "r", "AUTH_ACCESS_TOKEN_SECRET"},
		{"blank access", "   ", "r", "AUTH_ACCESS_TOKEN_SECRET"},
		{"missing refresh", "a", "", "AUTH_REFRESH_TOKEN_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := NewKeySet(tt.access, tt.refresh)
			require.Error(t, err)
			assert.Nil(t, keys)
			assert.ErrorIs(t, err, ErrConfiguration)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.setting, cfgErr.Setting)
		})
	}
}

func TestKeySet_Key(t *testing.T) {
	keys := newTestKeys(t)

	access, err := keys.Key(domain.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, []byte(testAccessSecret), access)

	refresh, err := keys.Key(domain.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, []byte(testRefreshSecret), refresh)

	_, err = keys.Key("session")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	var nilKeys *KeySet
	_, err = nilKeys.Key(domain.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestTokenConfig_Defaults(t *testing.T) {
	cfg, err := TokenConfig{}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, DefaultAccessTTL, cfg.AccessTTL)
	assert.Equal(t, DefaultRefreshTTL, cfg.RefreshTTL)
}

func TestTokenConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  TokenConfig
	}{
		{"negative access", TokenConfig{AccessTTL: -time.Minute}},
		{"negative refresh", TokenConfig{RefreshTTL: -time.Minute}},
		{"access not shorter", TokenConfig{AccessTTL: time.Hour, RefreshTTL: time.Hour}},
		{"leeway too large", TokenConfig{Leeway: time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.withDefaults()
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestTokenConfigFrom(t *testing.T) {
	cfg := TokenConfigFrom(config.AuthConfig{
		AccessTokenTTL:  5 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "token-service",
		Leeway:          time.Second,
	})

	assert.Equal(t, TokenConfig{
		AccessTTL:  5 * time.Minute,
		RefreshTTL: time.Hour,
		Issuer:     "token-service",
		Leeway:     time.Second,
	}, cfg)
}
