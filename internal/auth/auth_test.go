package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/employee-service/internal/domain"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "employee-service", time.Minute)
	token, exp, err := tm.GenerateToken("admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestParseTokenRejectsForeignAndExpiredTokens(t *testing.T) {
	tm := NewTokenManager("secret", "employee-service", time.Minute)

	other := NewTokenManager("other-secret", "employee-service", time.Minute)
	foreign, _, err := other.GenerateToken("admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = tm.ParseToken(foreign)
	assert.Error(t, err)

	stale := NewTokenManager("secret", "employee-service", time.Minute)
	stale.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _, err := stale.GenerateToken("admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = tm.ParseToken(expired)
	assert.Error(t, err)
}

func TestAdminAuthenticator(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	a := NewAdminAuthenticator("Admin@Example.com", hash)

	role, ok := a.Authenticate("admin@example.com", "s3cret")
	assert.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, role)

	_, ok = a.Authenticate("admin@example.com", "wrong")
	assert.False(t, ok)
	_, ok = a.Authenticate("someone@example.com", "s3cret")
	assert.False(t, ok)

	_, ok = NewAdminAuthenticator("admin@example.com", "").Authenticate("admin@example.com", "")
	assert.False(t, ok)
}

func newProtectedApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	mw := NewAuthMiddleware(tm)
	app.Get("/secure", mw.Handle, RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.Subject)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", "employee-service", time.Minute)
	app := newProtectedApp(tm)

	resp, err := app.Test(httptest.NewRequest("GET", "/secure", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, _, err := tm.GenerateToken("admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	lowly, _, err := tm.GenerateToken("intern@example.com", domain.Role("VIEWER"))
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+lowly)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
