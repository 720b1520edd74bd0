package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Middleware guards mutating routes with a Bearer token check.
func (t *TokenIssuer) Middleware(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization"})
		}
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization header"})
		}
		sub, err := t.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Debugw("token rejected", "err", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.Locals("teacher_id", sub)
		return c.Next()
	}
}
