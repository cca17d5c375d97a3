package service

import (
	"context"
	"testing"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
	"github.com/1willcobb/myfilmfriends-server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordService_ResetFlow(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	svc := NewPasswordService(users, repository.NewPasswordResetRepository(db), time.Hour)
	charlie := testutil.CreateUser(t, db, "charlie", "charlieiscool")

	_, err := svc.RequestReset(ctx, "nobody@example.com")
	assertAppError(t, err, models.CodeNotFound, "")

	tok, err := svc.RequestReset(ctx, "Charlie@Example.com")
	require.NoError(t, err)
	assert.Equal(t, charlie.ID, tok.UserID)

	row, err := svc.ValidateToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, charlie.ID, row.UserID)

	err = svc.ResetPassword(ctx, tok.Token, "short")
	assertAppError(t, err, models.CodeValidation, "")

	require.NoError(t, svc.ResetPassword(ctx, tok.Token, "charlie-new-pass"))

	hash, err := users.GetPasswordHash(ctx, charlie.ID)
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword("charlie-new-pass", hash))
	assert.False(t, auth.VerifyPassword("charlieiscool", hash))

	err = svc.ResetPassword(ctx, tok.Token, "another-new-pass")
	assertAppError(t, err, models.CodeValidation, "Invalid or expired password reset token")

	_, err = svc.ValidateToken(ctx, tok.Token)
	assertAppError(t, err, models.CodeValidation, "Invalid or expired token")
}

func TestPasswordService_ExpiredToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewPasswordService(repository.NewUserRepository(db), repository.NewPasswordResetRepository(db), time.Hour)
	testutil.CreateUser(t, db, "dana", "danaiscool")

	tok, err := svc.RequestReset(ctx, "dana@example.com")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.ValidateToken(ctx, tok.Token)
	assertAppError(t, err, models.CodeValidation, "Invalid or expired token")
	err = svc.ResetPassword(ctx, tok.Token, "dana-new-pass")
	assertAppError(t, err, models.CodeValidation, "Invalid or expired password reset token")
}
