package repository

import (
	"context"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"gorm.io/gorm"
)

// PasswordResetRepository stores single-use password reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	GetValid(ctx context.Context, token string, now time.Time) (*models.PasswordResetToken, error)
	Consume(ctx context.Context, token string, now time.Time, newHash string) (uint, error)
}

type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository returns a new PasswordResetRepository implementation.
func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetValid returns the unexpired token row. Token values never appear in errors.
func (r *passwordResetRepository) GetValid(ctx context.Context, token string, now time.Time) (*models.PasswordResetToken, error) {
	var row models.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND expiration > ?", token, now).
		First(&row).Error
	if err != nil {
		return nil, translate(err, "Password reset token", "provided")
	}
	return &row, nil
}

// Consume deletes the unexpired token and replaces the owner's password hash in
// one transaction. The delete's row count decides which of concurrent callers wins.
func (r *passwordResetRepository) Consume(ctx context.Context, token string, now time.Time, newHash string) (uint, error) {
	var userID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.PasswordResetToken
		if err := tx.Where("token = ? AND expiration > ?", token, now).First(&row).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", row.ID).Delete(&models.PasswordResetToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return gorm.ErrRecordNotFound
		}
		userID = row.UserID

		upd := tx.Model(&models.Password{}).Where("user_id = ?", row.UserID).Update("hash", newHash)
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return 0, translate(err, "Password reset token", "provided")
	}
	return userID, nil
}
