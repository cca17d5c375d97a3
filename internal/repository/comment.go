package repository

import (
	"context"

	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByTarget(ctx context.Context, target models.LikeTarget, page Page) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// CommentTarget returns the post or blog the comment belongs to.
func CommentTarget(c *models.Comment) (models.LikeTarget, bool) {
	switch {
	case c.PostID != nil && c.BlogID == nil:
		return models.LikeTarget{Kind: models.TargetPost, ID: *c.PostID}, true
	case c.BlogID != nil && c.PostID == nil:
		return models.LikeTarget{Kind: models.TargetBlog, ID: *c.BlogID}, true
	default:
		return models.LikeTarget{}, false
	}
}

// Create inserts the comment and bumps its target's comment count.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	target, ok := CommentTarget(comment)
	if !ok {
		return models.NewValidationError("Either postId or blogId is required")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := adjustCounter(tx, target.Table(), "comment_count", target.ID, 1); err != nil {
			return err
		}
		return tx.Omit("User").Create(comment).Error
	})
	if err != nil {
		return translate(err, resourceName(target.Table()), target.ID)
	}
	return translate(r.db.WithContext(ctx).First(&comment.User, comment.UserID).Error, "User", comment.UserID)
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, translate(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) ListByTarget(ctx context.Context, target models.LikeTarget, page Page) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).Preload("User").
		Where(target.Column()+" = ?", target.ID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{ID: comment.ID}).Update("content", comment.Content)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", comment.ID)
	}
	return nil
}

// Delete removes the comment and its likes and decrements the count on the
// comment's own target.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		if target, ok := CommentTarget(&comment); ok {
			return adjustCounter(tx, target.Table(), "comment_count", target.ID, -1)
		}
		return nil
	})
	return translate(err, "Comment", id)
}
