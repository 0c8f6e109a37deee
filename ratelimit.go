package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitKeyBySession returns a key for the rate limiter: per-session when
// the route carries a session id, else per-IP.
func RateLimitKeyBySession(c *fiber.Ctx) string {
	if sid := c.Params("sessionID"); sid != "" {
		return "session:" + sid
	}
	return c.IP()
}

// NewStartLimiter limits how fast one client can open new sessions.
func NewStartLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many sessions started, slow down",
			})
		},
	})
}

// NewSessionLimiter bounds per-session request rates on the exam endpoints.
func NewSessionLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          300,
		Expiration:   time.Minute,
		KeyGenerator: RateLimitKeyBySession,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests for this session",
			})
		},
	})
}
