package repository

import (
	"context"

	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"gorm.io/gorm"
)

// VoteRepository defines persistence operations for post votes.
type VoteRepository interface {
	Create(ctx context.Context, userID, postID uint) (*models.Vote, error)
	Delete(ctx context.Context, userID, postID uint) error
	Exists(ctx context.Context, userID, postID uint) (bool, error)
	ListByPost(ctx context.Context, postID uint, page Page) ([]models.Vote, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, userID, postID uint) (*models.Vote, error) {
	vote := &models.Vote{UserID: userID, PostID: postID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Vote{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return models.NewConflictError("You have already voted for this post")
		}
		if err := adjustCounter(tx, "posts", "vote_count", postID, 1); err != nil {
			return err
		}
		return tx.Omit("User").Create(vote).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, models.NewConflictError("You have already voted for this post")
		}
		return nil, translate(err, "Post", postID)
	}
	return vote, nil
}

func (r *voteRepository) Delete(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Vote", postID)
		}
		return adjustCounter(tx, "posts", "vote_count", postID, -1)
	})
	return translate(err, "Vote", postID)
}

func (r *voteRepository) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *voteRepository) ListByPost(ctx context.Context, postID uint, page Page) ([]models.Vote, error) {
	var votes []models.Vote
	if err := r.db.WithContext(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&votes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return votes, nil
}
