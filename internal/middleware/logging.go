// Package middleware holds the Fiber middleware shared by every route group.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// ContextMiddleware copies the request id from Fiber locals into the request
// context for the context-aware logger. TracingMiddleware adds the trace id and
// the auth guard adds the caller id.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		if rid, ok := c.Locals("requestid").(string); ok {
			ctx = context.WithValue(ctx, observability.RequestIDKey, rid)
		}

		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger returns a Fiber middleware for logging requests using slog.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		fields := []any{
			slog.Int("status", c.Response().StatusCode()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
			slog.String("user_agent", c.Get("User-Agent")),
		}
		if via, ok := c.Locals(auth.LocalAuthVia).(string); ok {
			fields = append(fields, slog.String("auth_via", via))
		}

		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			observability.Logger.ErrorContext(c.UserContext(), "request failed", fields...)
		} else {
			observability.Logger.InfoContext(c.UserContext(), "request processed", fields...)
		}

		return err
	}
}
