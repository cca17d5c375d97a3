package repository

import (
	"context"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/cache"
	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, page Page) ([]models.Post, error)
	ListByUser(ctx context.Context, userID uint, page Page) ([]models.Post, error)
	Feed(ctx context.Context, userID uint, page Page) ([]models.Post, error)
	TopVoted(ctx context.Context, from, to time.Time, page Page) ([]models.Post, error)
	Before(ctx context.Context, at, from time.Time, limit int) ([]models.Post, error)
	After(ctx context.Context, at, to time.Time, limit int) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and bumps the author's post count.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(post).Error; err != nil {
			return err
		}
		return adjustCounter(tx, "users", "post_count", post.UserID, 1)
	})
	if err != nil {
		return translate(err, "User", post.UserID)
	}
	cache.InvalidateUser(ctx, post.UserID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		return nil, translate(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, page Page) ([]models.Post, error) {
	return r.find(r.db.WithContext(ctx).Order("created_at DESC, id DESC"), page)
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, page Page) ([]models.Post, error) {
	return r.find(r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC"), page)
}

// Feed returns the user's own posts and posts of everyone they follow.
func (r *postRepository) Feed(ctx context.Context, userID uint, page Page) ([]models.Post, error) {
	followed := r.db.Model(&models.UserFollow{}).Select("followed_id").Where("follower_id = ?", userID)
	return r.find(r.db.WithContext(ctx).
		Where("user_id IN (?) OR user_id = ?", followed, userID).
		Order("created_at DESC, id DESC"), page)
}

// TopVoted lists posts created in [from, to) with at least one vote, most voted first.
func (r *postRepository) TopVoted(ctx context.Context, from, to time.Time, page Page) ([]models.Post, error) {
	return r.find(r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ? AND vote_count > 0", from, to).
		Order("vote_count DESC, created_at DESC"), page)
}

// Before lists voted posts created in [from, at), newest first.
func (r *postRepository) Before(ctx context.Context, at, from time.Time, limit int) ([]models.Post, error) {
	return r.find(r.db.WithContext(ctx).
		Where("created_at < ? AND created_at >= ? AND vote_count > 0", at, from).
		Order("created_at DESC"), Page{Limit: limit})
}

// After lists voted posts created in (at, to), oldest first.
func (r *postRepository) After(ctx context.Context, at, to time.Time, limit int) ([]models.Post, error) {
	return r.find(r.db.WithContext(ctx).
		Where("created_at > ? AND created_at < ? AND vote_count > 0", at, to).
		Order("created_at ASC"), Page{Limit: limit})
}

func (r *postRepository) find(q *gorm.DB, page Page) ([]models.Post, error) {
	var posts []models.Post
	if err := q.Preload("User").Limit(page.Limit).Offset(page.Offset).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).
		Select("Content", "ImageURL", "Lens", "FilmStock", "Camera", "Settings").
		Updates(post)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

// Delete removes the post with its likes, votes and comments and decrements the
// author's post count.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	var authorID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		authorID = post.UserID

		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&post).Error; err != nil {
			return err
		}
		return adjustCounter(tx, "users", "post_count", post.UserID, -1)
	})
	if err != nil {
		return translate(err, "Post", id)
	}
	cache.InvalidateUser(ctx, authorID)
	return nil
}
