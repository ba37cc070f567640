package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardlabs/storefront/internal/domain"
)

type stubVerifier struct {
	users map[string]*domain.User
}

func (s *stubVerifier) GetByToken(_ context.Context, token string) (*domain.User, error) {
	if user, ok := s.users[token]; ok {
		return user, nil
	}
	return nil, errors.New("unknown token")
}

func newAuthTestApp(verifier TokenVerifier, adminOnly bool) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{Protect(verifier)}
	if adminOnly {
		handlers = append(handlers, AdminOnly())
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserFromCtx(c).ID})
	})
	app.Get("/secure", handlers...)
	return app
}

func TestProtectRejectsMissingToken(t *testing.T) {
	app := newAuthTestApp(&stubVerifier{}, false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/secure", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectRejectsUnknownToken(t *testing.T) {
	app := newAuthTestApp(&stubVerifier{users: map[string]*domain.User{}}, false)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer nope")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectAcceptsValidToken(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	app := newAuthTestApp(&stubVerifier{users: map[string]*domain.User{"tok": user}}, false)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminOnlyRejectsRegularUser(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	app := newAuthTestApp(&stubVerifier{users: map[string]*domain.User{"tok": user}}, true)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminOnlyAcceptsAdmin(t *testing.T) {
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	app := newAuthTestApp(&stubVerifier{users: map[string]*domain.User{"tok": admin}}, true)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
