package repository

import (
	"context"
	"errors"

	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines persistence operations for likes on posts, comments and blogs.
type LikeRepository interface {
	Create(ctx context.Context, userID uint, target models.LikeTarget) (*models.Like, error)
	Delete(ctx context.Context, userID uint, target models.LikeTarget) error
	GetByID(ctx context.Context, id uint) (*models.Like, error)
	Exists(ctx context.Context, userID uint, target models.LikeTarget) (bool, error)
	ListByTarget(ctx context.Context, target models.LikeTarget, page Page) ([]models.Like, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func newLike(userID uint, target models.LikeTarget) *models.Like {
	like := &models.Like{UserID: userID}
	id := target.ID
	switch target.Kind {
	case models.TargetPost:
		like.PostID = &id
	case models.TargetComment:
		like.CommentID = &id
	case models.TargetBlog:
		like.BlogID = &id
	}
	return like
}

// Create records the like and adds exactly one to the target's like count.
func (r *likeRepository) Create(ctx context.Context, userID uint, target models.LikeTarget) (*models.Like, error) {
	like := newLike(userID, target)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Like{}).
			Where("user_id = ? AND "+target.Column()+" = ?", userID, target.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return models.NewConflictError("You have already liked this " + string(target.Kind))
		}
		if err := adjustCounter(tx, target.Table(), "like_count", target.ID, 1); err != nil {
			return err
		}
		return tx.Omit("User").Create(like).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, models.NewConflictError("You have already liked this " + string(target.Kind))
		}
		return nil, translate(err, resourceName(target.Table()), target.ID)
	}
	return like, nil
}

// Delete removes the like and subtracts exactly one from the target's like count.
func (r *likeRepository) Delete(ctx context.Context, userID uint, target models.LikeTarget) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND "+target.Column()+" = ?", userID, target.ID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Like", target.ID)
		}
		return adjustCounter(tx, target.Table(), "like_count", target.ID, -1)
	})
	return translate(err, "Like", target.ID)
}

func (r *likeRepository) GetByID(ctx context.Context, id uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).Preload("User").First(&like, id).Error; err != nil {
		return nil, translate(err, "Like", id)
	}
	return &like, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID uint, target models.LikeTarget) (bool, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND "+target.Column()+" = ?", userID, target.ID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}

func (r *likeRepository) ListByTarget(ctx context.Context, target models.LikeTarget, page Page) ([]models.Like, error) {
	var likes []models.Like
	if err := r.db.WithContext(ctx).Preload("User").
		Where(target.Column()+" = ?", target.ID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}
