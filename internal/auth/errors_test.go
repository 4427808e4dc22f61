package auth

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/token-service/pkg/util/errorutil"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		err        error
		code       string
		status     int
		reasonWant string
	}{
		{fmt.Errorf("%w: exp", ErrExpired), "TOKEN_EXPIRED", http.StatusUnauthorized, "expired"},
		{ErrWrongTokenType, "TOKEN_WRONG_TYPE", http.StatusUnauthorized, "wrong_type"},
		{ErrRevoked, "TOKEN_REVOKED", http.StatusUnauthorized, "revoked"},
		{ErrInvalidSignature, "TOKEN_INVALID", http.StatusUnauthorized, "invalid_signature"},
		{ErrAuthenticationFailed, "AUTHENTICATION_FAILED", http.StatusUnauthorized, "authentication_failed"},
		{ErrMissingBearer, "UNAUTHORIZED", http.StatusUnauthorized, "missing_bearer"},
		{configErr("AUTH_ACCESS_TOKEN_SECRET", "is required"), "INTERNAL_ERROR", http.StatusInternalServerError, "configuration"},
		{errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.reasonWant, func(t *testing.T) {
			mapped := ToDomainError(tt.err)
			var domainErr *apperrors.DomainError
			require.True(t, errors.As(mapped, &domainErr))
			assert.Equal(t, tt.code, domainErr.Code)
			assert.Equal(t, tt.status, domainErr.HTTPStatus)
			assert.ErrorIs(t, mapped, tt.err)
			assert.Equal(t, tt.reasonWant, Reason(tt.err))
		})
	}

	assert.Nil(t, ToDomainError(nil))
	assert.Equal(t, "ok", Reason(nil))
}

func TestConfigurationError(t *testing.T) {
	err := configErr("AUTH_REFRESH_TOKEN_SECRET", "is required")

	assert.EqualError(t, err, "token configuration: AUTH_REFRESH_TOKEN_SECRET is required")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.NotErrorIs(t, err, ErrInvalidSignature)
}
