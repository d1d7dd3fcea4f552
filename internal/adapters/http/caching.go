package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Handlers that set their own header win.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		status := c.Response().StatusCode()
		var ttl string

		switch {
		case path == "/tz":
			// A coordinate's zone only changes with the dataset.
			if status == fiber.StatusOK {
				ttl = "public, max-age=86400"
			} else {
				ttl = "no-store"
			}

		case path == "/search":
			ttl = "no-store" // carries the current time

		case path == "/" || path == "/v1/health" || path == "/v1/ready" || path == "/metrics":
			ttl = "no-cache"

		case path == "/v1/searches/recent":
			ttl = "no-cache"

		case path == "/v1/zones":
			ttl = "public, max-age=3600"

		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=3600"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
