package middleware

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware gates the /api/admin group behind a shared token the
// admin panel sends in X-Admin-Token. An empty configured token disables
// the whole group rather than leaving it open.
func AdminAuthMiddleware(expectedToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if expectedToken == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "admin API is not configured",
			})
		}
		token := c.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			log.Printf("[ADMIN_AUTH] rejected request to %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid admin token",
			})
		}
		return c.Next()
	}
}
