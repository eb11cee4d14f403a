package app

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jalexanderII/zero-todo/config"
)

// FiberMiddleware provides Fiber's built-in middlewares.
// See: https://docs.gofiber.io/api/middleware
func FiberMiddleware(a *fiber.App, cfg *config.Config) {
	a.Use(
		// Add simple logger.
		logger.New(logger.Config{
			Format: "[${ip}]:${port} ${status} - ${method} ${path} ${latency}\n",
		}),
		// Add CORS to each route.
		cors.New(cors.Config{
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}),
		// Cache only the static swagger docs, lists are per caller.
		cache.New(cache.Config{
			Next: func(c *fiber.Ctx) bool {
				return !strings.HasPrefix(c.Path(), "/swagger")
			},
			Expiration: 10 * time.Minute,
		}),
		// add rate limiter
		limiter.New(limiter.Config{
			Max:               cfg.RateLimitMax,
			Expiration:        30 * time.Second,
			LimiterMiddleware: limiter.SlidingWindow{},
		}),
		// recover from panic
		recover.New(),
	)
}
