package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter creates a rate limiting middleware keyed by authenticated
// user when available, falling back to client IP.
func RateLimiter(max int, expiration time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID := GetUserID(c); userID != "" {
				return userID
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "too many requests, please try again later",
			})
		},
	})
}

// AuthRateLimiter for credential endpoints
func AuthRateLimiter() fiber.Handler {
	return RateLimiter(5, 15*time.Minute)
}

// UploadRateLimiter for image-bearing endpoints
func UploadRateLimiter() fiber.Handler {
	return RateLimiter(10, 5*time.Minute)
}
