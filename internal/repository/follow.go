package repository

import (
	"context"

	"github.com/1willcobb/myfilmfriends-server/internal/cache"
	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID uint) (*models.UserFollow, error)
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	Followers(ctx context.Context, userID uint, page Page) ([]models.User, error)
	Following(ctx context.Context, userID uint, page Page) ([]models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow records the edge and bumps followingCount and followerCount together.
func (r *followRepository) Follow(ctx context.Context, followerID, followedID uint) (*models.UserFollow, error) {
	if followerID == followedID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	edge := &models.UserFollow{FollowerID: followerID, FollowedID: followedID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var followed models.User
		if err := tx.Select("id").First(&followed, followedID).Error; err != nil {
			return translate(err, "User", followedID)
		}
		var existing int64
		if err := tx.Model(&models.UserFollow{}).
			Where("follower_id = ? AND followed_id = ?", followerID, followedID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return models.NewConflictError("You are already following this user")
		}
		if err := tx.Omit("Follower", "Followed").Create(edge).Error; err != nil {
			return err
		}
		if err := adjustCounter(tx, "users", "following_count", followerID, 1); err != nil {
			return err
		}
		return adjustCounter(tx, "users", "follower_count", followedID, 1)
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, models.NewConflictError("You are already following this user")
		}
		return nil, translate(err, "User", followedID)
	}
	cache.InvalidateUser(ctx, followerID, followedID)
	return edge, nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&models.UserFollow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Follow", followedID)
		}
		if err := adjustCounter(tx, "users", "following_count", followerID, -1); err != nil {
			return err
		}
		return adjustCounter(tx, "users", "follower_count", followedID, -1)
	})
	if err != nil {
		return translate(err, "Follow", followedID)
	}
	cache.InvalidateUser(ctx, followerID, followedID)
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserFollow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Followers(ctx context.Context, userID uint, page Page) ([]models.User, error) {
	ids := r.db.Model(&models.UserFollow{}).Select("follower_id").Where("followed_id = ?", userID)
	return r.users(ctx, ids, page)
}

func (r *followRepository) Following(ctx context.Context, userID uint, page Page) ([]models.User, error) {
	ids := r.db.Model(&models.UserFollow{}).Select("followed_id").Where("follower_id = ?", userID)
	return r.users(ctx, ids, page)
}

func (r *followRepository) users(ctx context.Context, ids *gorm.DB, page Page) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", ids).
		Order("username ASC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
