package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/orchardlabs/storefront/internal/domain"
	"github.com/orchardlabs/storefront/internal/httpx"
)

const userLocalKey = "auth_user"

// TokenVerifier resolves a bearer token to its user.
type TokenVerifier interface {
	GetByToken(ctx context.Context, token string) (*domain.User, error)
}

// Protect authenticates the request via the Authorization bearer token and
// stores the user in the request locals.
func Protect(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return httpx.Unauthorized(c, "Missing bearer token")
		}

		token := strings.TrimPrefix(header, "Bearer ")
		user, err := verifier.GetByToken(c.Context(), token)
		if err != nil {
			return httpx.Unauthorized(c, "Invalid token")
		}

		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// AdminOnly requires the authenticated user to carry the admin role.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := UserFromCtx(c)
		if user == nil || !user.IsAdmin() {
			return httpx.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

func UserFromCtx(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(userLocalKey).(*domain.User)
	return user
}

// SetUser is a test hook for injecting an authenticated user.
func SetUser(c *fiber.Ctx, user *domain.User) {
	c.Locals(userLocalKey, user)
}
