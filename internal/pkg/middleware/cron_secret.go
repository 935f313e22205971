package middleware

import (
	"crypto/subtle"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/paynudge/paynudge/internal/pkg/env"
)

// CronSecretMiddleware guards scheduler-triggered endpoints with the shared
// X-Cron-Secret header. A deployment without CRON_SECRET configured rejects
// every trigger rather than running unauthenticated.
func CronSecretMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := env.GetEnv("CRON_SECRET", "")
		if secret == "" {
			log.Print("cron middleware: CRON_SECRET is not configured")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Cron secret not configured"})
		}

		provided := strings.TrimSpace(c.Get("X-Cron-Secret"))
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid cron secret"})
		}

		return c.Next()
	}
}
