package handlers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// Register wires the API surface. Mutating routes get the token check
// when authRequired is set; disabling it reproduces the original
// unprotected proxy behavior.
func (h *Handler) Register(app *fiber.App, authRequired bool, extra ...fiber.Handler) {
	api := app.Group("/api")
	for _, mw := range extra {
		api.Use(mw)
	}

	api.Get("/health", h.Health)
	api.Post("/login", h.Login)
	api.Get("/content", h.ListContent)

	guard := func(c *fiber.Ctx) error { return c.Next() }
	if authRequired {
		guard = h.tokens.Middleware(h.log)
	}
	api.Post("/upload", guard, h.Upload)
	api.Put("/content", guard, h.UpdateContent)
	api.Delete("/content", guard, h.DeleteContent)
}

// RegisterStatic serves the built client with an index fallback for
// client-side routes. Standard SPA hosting, nothing portal-specific.
func RegisterStatic(app *fiber.App, dir string) {
	app.Static("/", dir)
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(dir, "index.html"))
	})
}
