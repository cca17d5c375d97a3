package service

import (
	"errors"
	"testing"

	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertAppError asserts that err is an AppError with code and, when given, message.
func assertAppError(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}
