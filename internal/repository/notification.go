package repository

import (
	"context"

	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uint, page Page) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	DeleteAllForUser(ctx context.Context, userID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository returns a new NotificationRepository implementation.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translate(err, "Notification", id)
	}
	return &n, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, page Page) ([]models.Notification, error) {
	var out []models.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{ID: id}).Update("is_read", true)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (r *notificationRepository) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Notification{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
