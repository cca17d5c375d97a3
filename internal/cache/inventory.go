package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix = "user:%d"
)

const (
	UserTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// Aside reads key into dest, calling fetch to fill dest on a miss and storing
// the result for ttl. Redis failures fall through to fetch.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
	} else if !errors.Is(err, redis.Nil) {
		observability.Logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	if err := fetch(); err != nil {
		return err
	}

	if payload, err := json.Marshal(dest); err == nil {
		if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
			observability.Logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
		}
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userIDs ...uint) {
	for _, id := range userIDs {
		Invalidate(ctx, UserKey(id))
	}
}
