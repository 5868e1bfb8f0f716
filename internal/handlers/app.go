package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipes/internal/middleware"
	"recipes/internal/services"
)

// HealthCheck reports the state of a dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// AppOptions configures NewApp.
type AppOptions struct {
	Recipes     *services.RecipeService
	Ingredients *services.IngredientService
	// RateLimitMax disables rate limiting when zero.
	RateLimitMax    int
	RateLimitWindow time.Duration
	// AccessLog enables the fiber request logger.
	AccessLog bool
	Checks    map[string]HealthCheck
}

// NewApp builds the Fiber app with middleware, the /api/v1 routes, /health and /metrics.
func NewApp(opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		// Params and query values are stored by the memory repositories.
		Immutable: true,
	})

	app.Use(middleware.Recover())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(middleware.Metrics())

	app.Get("/health", healthHandler(opts.Checks))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiV1 := app.Group("/api/v1")
	if opts.RateLimitMax > 0 {
		apiV1.Use(middleware.RateLimit(opts.RateLimitMax, opts.RateLimitWindow))
	}
	NewRecipeHandler(opts.Recipes).RegisterRoutes(apiV1)
	NewIngredientHandler(opts.Ingredients).RegisterRoutes(apiV1)

	return app
}

func healthHandler(checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := "healthy"
		code := fiber.StatusOK
		deps := fiber.Map{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				deps[name] = err.Error()
				status = "degraded"
				code = fiber.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		return c.Status(code).JSON(fiber.Map{
			"status":       status,
			"time":         time.Now().Format(time.RFC3339),
			"dependencies": deps,
		})
	}
}
