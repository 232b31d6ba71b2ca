package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ServiceAuthMiddleware validates the Bearer token internal callers
// (gateway, ops tooling) must present on the HTTP admin surface. The
// WebSocket endpoint is not behind this: it authenticates end users at
// the handshake instead.
func ServiceAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("ROOM_SERVICE_TOKEN")
	if expectedToken == "" {
		log.Fatal("❌ ROOM_SERVICE_TOKEN is not set — service cannot authenticate internal callers")
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Printf("🚫 [SERVICE_AUTH] Missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "service authentication token missing",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != expectedToken {
			log.Printf("❌ [SERVICE_AUTH] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid service authentication token",
			})
		}

		return c.Next()
	}
}
