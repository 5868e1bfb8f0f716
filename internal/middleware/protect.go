package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RateLimit allows max requests per client IP within window. Rejections go
// through the app error handler as a fiber 429 error.
func RateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			rateLimitRejects.Inc()
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

// Recover turns panics into 500 responses and logs the stack.
func Recover() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			panicRecoveries.Inc()
			slog.Error("panic recovered",
				"request_id", RequestID(c),
				"method", c.Method(),
				"path", c.Path(),
				"panic", fmt.Sprint(e),
			)
		},
	})
}

// RequestID returns the id assigned by the requestid middleware.
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return ""
}
