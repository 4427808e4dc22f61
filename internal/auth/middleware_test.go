package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/token-service/internal/domain"
	apperrors "github.com/spec-kit/token-service/pkg/util/errorutil"
)

func newMiddlewareTestApp(t *testing.T, verifier *Verifier, guards ...fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		},
	})
	mw := NewAuthMiddleware(verifier, zaptest.NewLogger(t), nil)

	handlers := append([]fiber.Handler{mw.Handle}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.JSON(fiber.Map{"id": principal.Identity.ID, "role": principal.Identity.Role})
	})
	app.Get("/protected", handlers...)
	return app
}

func doGet(t *testing.T, app *fiber.App, authorization string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestAuthMiddleware(t *testing.T) {
	clock := newFakeClock()
	issuer, verifier := newTestPair(t, newTestKeys(t), clock)
	app := newMiddlewareTestApp(t, verifier)

	pair, err := issuer.IssueTokenPair(testIdentity())
	require.NoError(t, err)

	status, body := doGet(t, app, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u1", body["id"])
	assert.Equal(t, "user", body["role"])

	status, body = doGet(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	status, body = doGet(t, app, pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	status, body = doGet(t, app, "Bearer "+pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_WRONG_TYPE", body["code"])

	status, body = doGet(t, app, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_INVALID", body["code"])

	clock.Advance(16 * time.Minute)
	status, body = doGet(t, app, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_EXPIRED", body["code"])
}

func TestRequireRole(t *testing.T) {
	clock := newFakeClock()
	issuer, verifier := newTestPair(t, newTestKeys(t), clock)
	app := newMiddlewareTestApp(t, verifier, RequireRole(domain.RoleAdmin))

	userPair, err := issuer.IssueTokenPair(testIdentity())
	require.NoError(t, err)
	adminPair, err := issuer.IssueTokenPair(domain.Identity{ID: "a1", Email: "a1@x.com", Role: domain.RoleAdmin})
	require.NoError(t, err)

	status, body := doGet(t, app, "Bearer "+userPair.AccessToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, body = doGet(t, app, "Bearer "+adminPair.AccessToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a1", body["id"])
}

func TestRequireAuthenticated_WithoutPrincipal(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/", RequireAuthenticated(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
