package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-service/internal/api/dto"
	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/domain"
	"github.com/spec-kit/token-service/internal/service"
)

// AuthHandler exposes the token lifecycle endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parse(c, &req); err != nil {
		return err
	}

	pair, err := h.auth.Login(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return auth.ToDomainError(err)
	}
	return c.JSON(fiber.Map{"data": pairResponse(pair)})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := parse(c, &req); err != nil {
		return err
	}

	pair, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return auth.ToDomainError(err)
	}
	return c.JSON(fiber.Map{"data": pairResponse(pair)})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := parse(c, &req); err != nil {
		return err
	}

	if err := h.auth.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return auth.ToDomainError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Introspect handles POST /auth/introspect. Invalid tokens are reported inactive with 200.
func (h *AuthHandler) Introspect(c *fiber.Ctx) error {
	var req dto.IntrospectRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	tokenType, _ := domain.ParseTokenType(req.TokenType)

	res, err := h.auth.Introspect(c.UserContext(), req.Token, tokenType)
	if err != nil {
		return err
	}

	resp := dto.IntrospectResponse{
		Active:    res.Active,
		TokenType: string(res.TokenType),
		Reason:    res.Reason,
	}
	if res.Active {
		subject := identityResponse(*res.Identity)
		resp.Subject = &subject
		resp.IssuedAt = &res.IssuedAt
		resp.ExpiresAt = &res.ExpiresAt
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return auth.ToDomainError(auth.ErrMissingBearer)
	}
	return c.JSON(fiber.Map{"data": identityResponse(principal.Identity)})
}

// AdminPing handles GET /admin/ping.
func (h *AuthHandler) AdminPing(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"pong": true, "subject": principal.Identity.ID}})
}

func parse(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return dto.Validate(dst)
}

func pairResponse(pair domain.TokenPair) dto.TokenPairResponse {
	return dto.TokenPairResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		TokenType:        "Bearer",
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}

func identityResponse(identity domain.Identity) dto.IdentityResponse {
	return dto.IdentityResponse{
		ID:    identity.ID,
		Email: identity.Email,
		Role:  string(identity.Role),
	}
}
