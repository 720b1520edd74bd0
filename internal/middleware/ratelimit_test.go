package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	// 1 request per minute leaves only the burst allowance.
	rl := NewIPRateLimiter(1, zap.NewNop().Sugar())

	app := fiber.New()
	app.Get("/", rl.Handler(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	var last int
	for i := 0; i < rl.burst+1; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		last = resp.StatusCode
	}
	require.Equal(t, fiber.StatusTooManyRequests, last)
}
