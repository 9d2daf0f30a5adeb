package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Counter keys are namespaced so a shared redis can hold other data.
const limiterKeyPrefix = "heavysync:limiter:"

// RateLimit allows limit requests per client IP per window. Counters live in
// storage when it is set (redis in production) and in process memory
// otherwise. name keeps the counters of separate limiters apart.
func RateLimit(name string, limit int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return limiterKeyPrefix + name + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later")
		},
	})
}
