package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Version is stamped at build time.
var Version = "dev"

var errDisconnected = errors.New("disconnected")

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": Version,
		})
	}
}

type readiness struct {
	checks map[string]string
	ok     bool
}

// probe records one check. A nil fn means the dependency is not configured,
// which only fails readiness when it is required.
func (r *readiness) probe(name string, required bool, fn func() error) {
	if fn == nil {
		r.checks[name] = "not configured"
		if required {
			r.ok = false
		}
		return
	}
	if err := fn(); err != nil {
		r.checks[name] = "error: " + err.Error()
		r.ok = false
		return
	}
	r.checks[name] = "ok"
}

// ReadyHandler checks DB, NATS and cache connectivity. NATS and the cache are
// optional; a configured but broken one still fails readiness. The generation
// credential is reported but never fails readiness.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		r := &readiness{checks: make(map[string]string), ok: true}

		var db, nc, cache func() error
		if deps.DB != nil {
			db = func() error { return deps.DB.Pool.Ping(ctx) }
		}
		if deps.NATS != nil {
			nc = func() error {
				if !deps.NATS.IsConnected() {
					return errDisconnected
				}
				return nil
			}
		}
		if deps.Cache != nil {
			cache = func() error { return deps.Cache.Ping(ctx) }
		}
		r.probe("database", true, db)
		r.probe("nats", false, nc)
		r.probe("cache", false, cache)

		if deps.Credentials != nil {
			active, err := deps.Credentials.HasActiveCredential(ctx)
			switch {
			case err != nil:
				r.checks["generation"] = "error: " + err.Error()
			case active:
				r.checks["generation"] = "credential configured"
			default:
				r.checks["generation"] = "credential missing"
			}
		}

		status := "ready"
		code := fiber.StatusOK
		if !r.ok {
			status = "not ready"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": r.checks,
		})
	}
}
