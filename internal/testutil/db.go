// Package testutil provides shared fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/1willcobb/myfilmfriends-server/internal/database"
	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database private to t.
// A single connection keeps every query on the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with the given password and returns it.
func CreateUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		Name:     username,
		Email:    username + "@example.com",
		Username: username,
		Role:     models.RoleUser,
		Password: &models.Password{Hash: string(hash)},
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Reload fetches a fresh copy of the row with primary key id.
func Reload[T any](t *testing.T, db *gorm.DB, id uint) *T {
	t.Helper()
	var out T
	require.NoError(t, db.First(&out, id).Error)
	return &out
}
