package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/token-service/internal/domain"
	"github.com/spec-kit/token-service/internal/observability"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller, rebuilt from the access token alone.
type Principal struct {
	Identity domain.Identity
	TokenID  string
}

// AuthMiddleware validates bearer access tokens.
type AuthMiddleware struct {
	verifier *Verifier
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier *Verifier, logger *zap.Logger, metrics *observability.Metrics) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{verifier: verifier, logger: logger, metrics: metrics}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := StripBearer(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		m.metrics.RecordVerification(string(domain.TokenTypeAccess), Reason(err))
		return ToDomainError(err)
	}

	info, err := m.verifier.Inspect(raw, domain.TokenTypeAccess)
	m.metrics.RecordVerification(string(domain.TokenTypeAccess), Reason(err))
	if err != nil {
		if errors.Is(err, ErrWrongTokenType) {
			m.logger.Warn("token type misuse",
				zap.String("expected", string(domain.TokenTypeAccess)),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Error(err))
		}
		return ToDomainError(err)
	}

	c.Locals(principalKey, &Principal{Identity: info.Identity, TokenID: info.ID})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
