package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses that do not set it.
// Everything under /v1 is the rider's own data, so nothing is shared-cacheable.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if len(c.Response().Header.Peek(fiber.HeaderCacheControl)) > 0 {
			return err
		}

		path := c.Path()
		var cc string
		switch {
		case path == "/v1/health" || path == "/v1/ready":
			cc = "public, max-age=10"
		case path == "/metrics":
			cc = "no-cache"
		case strings.HasPrefix(path, "/docs"):
			cc = "public, max-age=3600"
		case strings.HasPrefix(path, "/v1/trips"), strings.HasPrefix(path, "/v1/chat"):
			// Session display state changes under the client's feet.
			cc = "no-store"
		case strings.HasPrefix(path, "/v1/"):
			cc = "private, no-cache"
		}

		if cc != "" {
			c.Set(fiber.HeaderCacheControl, cc)
		}
		return err
	}
}
