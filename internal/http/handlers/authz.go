package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	applog "bookshop/internal/log"
)

// RequireAdmin admits requests whose bearer token matches the bcrypt hash.
// With an empty hash every request is refused.
func RequireAdmin(tokenHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenHash == "" {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "admin disabled"})
			return c.Status(fiber.StatusForbidden).SendString("Access denied")
		}
		tok, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || tok == "" {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "missing token"})
			return c.Status(fiber.StatusUnauthorized).SendString("Access denied")
		}
		if bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(tok)) != nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "bad token"})
			return c.Status(fiber.StatusForbidden).SendString("Access denied")
		}
		return c.Next()
	}
}
