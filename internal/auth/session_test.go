package auth

import (
	"context"
	"testing"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeCase struct {
	name  string
	store SessionStore
	// advance moves the store clock forward.
	advance func(d time.Duration)
}

func sessionStores(t *testing.T) []storeCase {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	now := time.Now()

	redisStore := NewRedisSessionStore(rdb, time.Hour)
	redisStore.now = func() time.Time { return now }

	dbNow := time.Now()
	dbStore := NewDBSessionStore(testutil.NewTestDB(t), time.Hour)
	dbStore.now = func() time.Time { return dbNow }

	return []storeCase{
		{"redis", redisStore, func(d time.Duration) { now = now.Add(d); mr.FastForward(d) }},
		{"database", dbStore, func(d time.Duration) { dbNow = dbNow.Add(d) }},
	}
}

func TestSessionStores_Lifecycle(t *testing.T) {
	for _, sc := range sessionStores(t) {
		t.Run(sc.name, func(t *testing.T) {
			ctx := context.Background()

			sess, err := sc.store.Create(ctx, 5, "user")
			require.NoError(t, err)
			assert.NotEmpty(t, sess.ID)

			got, err := sc.store.Get(ctx, sess.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, uint(5), got.UserID)

			require.NoError(t, sc.store.Destroy(ctx, sess.ID))
			got, err = sc.store.Get(ctx, sess.ID)
			require.NoError(t, err)
			assert.Nil(t, got)

			// Destroy is idempotent.
			assert.NoError(t, sc.store.Destroy(ctx, sess.ID))
			assert.NoError(t, sc.store.Destroy(ctx, "never-existed"))
		})
	}
}

func TestSessionStores_ExpiredIsAbsent(t *testing.T) {
	for _, sc := range sessionStores(t) {
		t.Run(sc.name, func(t *testing.T) {
			ctx := context.Background()
			sess, err := sc.store.Create(ctx, 6, "user")
			require.NoError(t, err)

			sc.advance(2 * time.Hour)

			got, err := sc.store.Get(ctx, sess.ID)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestSessionStores_IDsAreUnique(t *testing.T) {
	for _, sc := range sessionStores(t) {
		t.Run(sc.name, func(t *testing.T) {
			ctx := context.Background()
			a, err := sc.store.Create(ctx, 1, "user")
			require.NoError(t, err)
			b, err := sc.store.Create(ctx, 1, "user")
			require.NoError(t, err)
			assert.NotEqual(t, a.ID, b.ID)
		})
	}
}

func TestDBSessionStore_Sweep(t *testing.T) {
	db := testutil.NewTestDB(t)
	now := time.Now()
	store := NewDBSessionStore(db, time.Hour)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := store.Create(ctx, 1, "user")
	require.NoError(t, err)
	now = now.Add(30 * time.Minute)
	live, err := store.Create(ctx, 2, "user")
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	got, err := store.Get(ctx, live.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
