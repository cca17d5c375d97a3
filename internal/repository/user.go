package repository

import (
	"context"
	"errors"

	"github.com/1willcobb/myfilmfriends-server/internal/cache"
	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users and their credentials.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetPasswordHash(ctx context.Context, userID uint) (string, error)
	Create(ctx context.Context, user *models.User, passwordHash string) error
	UpdateProfile(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page Page) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return translate(r.db.WithContext(ctx).First(&user, id).Error, "User", id)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByUsername returns nil, nil when no user has the username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetPasswordHash(ctx context.Context, userID uint) (string, error) {
	var pw models.Password
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pw).Error; err != nil {
		return "", translate(err, "Password", userID)
	}
	return pw.Hash, nil
}

// Create inserts the user and its credential row together.
func (r *userRepository) Create(ctx context.Context, user *models.User, passwordHash string) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.Password = &models.Password{Hash: passwordHash}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
	user.Password = nil
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email or username already in use.")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{ID: user.ID}).
		Select("Name", "Bio", "ProfileImage").
		Updates(user)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", user.ID)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// Delete removes the user's follows, likes and votes with their counter
// adjustments, drops the credential and soft-deletes the user.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	var touched []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return translate(err, "User", id)
		}

		if err := tx.Model(&models.UserFollow{}).
			Where("follower_id = ?", id).Pluck("followed_id", &touched).Error; err != nil {
			return err
		}
		var followers []uint
		if err := tx.Model(&models.UserFollow{}).
			Where("followed_id = ?", id).Pluck("follower_id", &followers).Error; err != nil {
			return err
		}
		touched = append(touched, followers...)

		steps := []func() error{
			func() error {
				return decrementFromRelation(tx, "users", "follower_count", "user_follows", "followed_id", "follower_id", id)
			},
			func() error {
				return decrementFromRelation(tx, "users", "following_count", "user_follows", "follower_id", "followed_id", id)
			},
			func() error {
				return tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&models.UserFollow{}).Error
			},
			func() error { return decrementFromRelation(tx, "posts", "like_count", "likes", "post_id", "user_id", id) },
			func() error {
				return decrementFromRelation(tx, "comments", "like_count", "likes", "comment_id", "user_id", id)
			},
			func() error { return decrementFromRelation(tx, "blogs", "like_count", "likes", "blog_id", "user_id", id) },
			func() error { return tx.Where("user_id = ?", id).Delete(&models.Like{}).Error },
			func() error { return decrementFromRelation(tx, "posts", "vote_count", "votes", "post_id", "user_id", id) },
			func() error { return tx.Where("user_id = ?", id).Delete(&models.Vote{}).Error },
			func() error { return tx.Where("user_id = ?", id).Delete(&models.Password{}).Error },
			func() error { return tx.Where("user_id = ?", id).Delete(&models.PasswordResetToken{}).Error },
			func() error { return tx.Delete(&user).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translate(err, "User", id)
	}
	cache.InvalidateUser(ctx, append(touched, id)...)
	return nil
}

func (r *userRepository) List(ctx context.Context, page Page) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Limit(page.Limit).Offset(page.Offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
