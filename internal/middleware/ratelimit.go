package middleware

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// rateLimitedEnvs skip enforcement entirely. An unset APP_ENV counts as development.
var rateLimitedEnvs = map[string]bool{"test": true, "development": true, "stress": true, "": true}

// CheckRateLimit reports whether id may perform another request against
// resource within the current fixed window.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rateLimitedEnvs[os.Getenv("APP_ENV")] {
		return true, nil
	}
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	var incr *redis.IntCmd
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// RateLimit enforces limit requests per window, keyed by caller id when the
// guard has run and by remote IP otherwise. It fails open.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid, ok := c.Locals(auth.LocalUserID).(uint); ok {
			id = fmt.Sprintf("user:%d", uid)
		} else {
			id = "ip:" + c.IP()
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				observability.Logger.WarnContext(c.UserContext(), "rate limit fail-closed",
					"path", c.Path(), "resource", resource, "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
					Message: "Rate limit unavailable",
					Code:    models.CodeInternal,
				})
			}
			return c.Next()
		}

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Message: "Too many requests, please try again later",
				Code:    models.CodeRateLimited,
			})
		}
		return c.Next()
	}
}
