package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/motospirit/internal/pkg/logging"
)

// SessionHeader carries the client's trip session id.
const SessionHeader = "X-Session-ID"

// RequestIDLogMiddleware stores a request-scoped logger carrying the request
// and session ids in the user context so that use cases log with them.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var attrs []any
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			attrs = append(attrs, "request_id", rid)
		}
		if sid := c.Get(SessionHeader); sid != "" {
			attrs = append(attrs, "session", sid)
		}
		if len(attrs) == 0 {
			return c.Next()
		}

		reqLogger := slog.Default().With(attrs...)
		c.SetUserContext(logging.WithLogger(c.UserContext(), reqLogger))
		return c.Next()
	}
}
