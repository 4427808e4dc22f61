package auth

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/spec-kit/token-service/pkg/util/errorutil"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("token configuration error")
	// ErrInvalidSignature covers tampered, malformed or foreign-key tokens.
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token expired")
	// ErrWrongTokenType is returned for a genuine token presented where the other type is required.
	ErrWrongTokenType       = errors.New("wrong token type")
	ErrRevoked              = errors.New("token revoked")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrMissingBearer        = errors.New("missing bearer credential")
)

// ConfigurationError reports missing or inconsistent signing configuration.
// It is fatal and never retried.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("token configuration: %s %s", e.Setting, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErr(setting, reason string) error {
	return &ConfigurationError{Setting: setting, Reason: reason}
}

var (
	errTokenInvalid   = apperrors.NewDomainError("TOKEN_INVALID", "invalid token", http.StatusUnauthorized, nil)
	errTokenExpired   = apperrors.NewDomainError("TOKEN_EXPIRED", "token expired", http.StatusUnauthorized, nil)
	errTokenWrongType = apperrors.NewDomainError("TOKEN_WRONG_TYPE", "wrong token type", http.StatusUnauthorized, nil)
	errTokenRevoked   = apperrors.NewDomainError("TOKEN_REVOKED", "token revoked", http.StatusUnauthorized, nil)
	errAuthFailed     = apperrors.NewDomainError("AUTHENTICATION_FAILED", "invalid credentials", http.StatusUnauthorized, nil)
	errMissingBearer  = apperrors.NewDomainError("UNAUTHORIZED", "missing or malformed authorization header", http.StatusUnauthorized, nil)
)

// ToDomainError maps token errors onto their HTTP representation.
// Anything outside the taxonomy, configuration errors included, becomes an internal error.
func ToDomainError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrExpired):
		return errTokenExpired.Wrap(err)
	case errors.Is(err, ErrWrongTokenType):
		return errTokenWrongType.Wrap(err)
	case errors.Is(err, ErrRevoked):
		return errTokenRevoked.Wrap(err)
	case errors.Is(err, ErrInvalidSignature):
		return errTokenInvalid.Wrap(err)
	case errors.Is(err, ErrAuthenticationFailed):
		return errAuthFailed.Wrap(err)
	case errors.Is(err, ErrMissingBearer):
		return errMissingBearer.Wrap(err)
	default:
		return apperrors.MapError(err)
	}
}

// Reason returns a short label for metrics and audit logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrWrongTokenType):
		return "wrong_type"
	case errors.Is(err, ErrRevoked):
		return "revoked"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrAuthenticationFailed):
		return "authentication_failed"
	case errors.Is(err, ErrMissingBearer):
		return "missing_bearer"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "error"
	}
}
