package database

import "github.com/1willcobb/myfilmfriends-server/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Password{},
		&models.Session{},
		&models.PasswordResetToken{},
		&models.UserFollow{},
		&models.Post{},
		&models.Vote{},
		&models.Blog{},
		&models.Comment{},
		&models.Like{},
		&models.Chat{},
		&models.Message{},
		&models.Notification{},
	}
}
