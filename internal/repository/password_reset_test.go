package repository

import (
	"context"
	"testing"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetRepository_ConsumeIsSingleUse(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	resets := NewPasswordResetRepository(db)
	users := NewUserRepository(db)
	u := testutil.CreateUser(t, db, "forgetful", "old")
	now := time.Now()

	require.NoError(t, resets.Create(ctx, &models.PasswordResetToken{
		Token: "tok-1", UserID: u.ID, Expiration: now.Add(time.Hour),
	}))

	_, err := resets.GetValid(ctx, "tok-1", now)
	require.NoError(t, err)

	userID, err := resets.Consume(ctx, "tok-1", now, "new-hash")
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)

	hash, err := users.GetPasswordHash(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", hash)

	_, err = resets.Consume(ctx, "tok-1", now, "other-hash")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	hash, _ = users.GetPasswordHash(ctx, u.ID)
	assert.Equal(t, "new-hash", hash)
}

func TestPasswordResetRepository_Expired(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	resets := NewPasswordResetRepository(db)
	u := testutil.CreateUser(t, db, "late", "old")
	now := time.Now()

	require.NoError(t, resets.Create(ctx, &models.PasswordResetToken{
		Token: "tok-old", UserID: u.ID, Expiration: now.Add(-time.Minute),
	}))

	_, err := resets.GetValid(ctx, "tok-old", now)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	_, err = resets.Consume(ctx, "tok-old", now, "h")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
