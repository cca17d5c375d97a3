package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimit_Bypass(t *testing.T) {
	for _, env := range []string{"test", "development", "stress"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			allowed, err := CheckRateLimit(context.Background(), nil, "login", "ip:1", 1, time.Minute)
			assert.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestCheckRateLimit_NilRedis(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	allowed, err := CheckRateLimit(context.Background(), nil, "login", "ip:1", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestCheckRateLimit_Window(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}
	allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Other callers keep their own budget.
	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	mr.FastForward(2 * time.Minute)
	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitWithPolicy(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	tests := []struct {
		name       string
		policy     FailPolicy
		redisDown  bool
		requests   int
		wantStatus int
	}{
		{name: "under limit", policy: FailOpen, requests: 1, wantStatus: fiber.StatusOK},
		{name: "over limit", policy: FailOpen, requests: 3, wantStatus: fiber.StatusTooManyRequests},
		{name: "redis down fail open", policy: FailOpen, redisDown: true, requests: 1, wantStatus: fiber.StatusOK},
		{name: "redis down fail closed", policy: FailClosed, redisDown: true, requests: 1, wantStatus: fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			defer func() { _ = rdb.Close() }()
			if tt.redisDown {
				mr.Close()
			}

			app := fiber.New()
			app.Post("/signup", RateLimitWithPolicy(rdb, 2, time.Minute, tt.policy, "signup"), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			var status int
			for i := 0; i < tt.requests; i++ {
				resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/signup", nil))
				require.NoError(t, err)
				status = resp.StatusCode
			}
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
