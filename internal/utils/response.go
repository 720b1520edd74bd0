package utils

import "github.com/gofiber/fiber/v2"

// JSONError writes the portal's error envelope. The client surfaces
// the message verbatim, so keep it short and user-readable.
func JSONError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
