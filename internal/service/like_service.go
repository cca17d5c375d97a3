package service

import (
	"context"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
)

type LikeService struct {
	likeRepo repository.LikeRepository
}

func NewLikeService(likeRepo repository.LikeRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo}
}

// ResolveTarget picks the single non-zero id out of postID, commentID and blogID.
func ResolveTarget(postID, commentID, blogID uint) (models.LikeTarget, error) {
	var targets []models.LikeTarget
	if postID != 0 {
		targets = append(targets, models.LikeTarget{Kind: models.TargetPost, ID: postID})
	}
	if commentID != 0 {
		targets = append(targets, models.LikeTarget{Kind: models.TargetComment, ID: commentID})
	}
	if blogID != 0 {
		targets = append(targets, models.LikeTarget{Kind: models.TargetBlog, ID: blogID})
	}
	if len(targets) != 1 {
		return models.LikeTarget{}, models.NewValidationError("Exactly one of postId, commentId or blogId is required")
	}
	return targets[0], nil
}

func (s *LikeService) Like(ctx context.Context, userID uint, target models.LikeTarget) (*models.Like, error) {
	return s.likeRepo.Create(ctx, userID, target)
}

func (s *LikeService) Unlike(ctx context.Context, userID uint, target models.LikeTarget) error {
	return s.likeRepo.Delete(ctx, userID, target)
}

func (s *LikeService) IsLiked(ctx context.Context, userID uint, target models.LikeTarget) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, target)
}

func (s *LikeService) GetLike(ctx context.Context, id uint) (*models.Like, error) {
	return s.likeRepo.GetByID(ctx, id)
}

func (s *LikeService) ListLikes(ctx context.Context, target models.LikeTarget, page repository.Page) ([]models.Like, bool, error) {
	likes, err := s.likeRepo.ListByTarget(ctx, target, page.Peek())
	if err != nil {
		return nil, false, err
	}
	likes, more := repository.Trim(likes, page)
	return likes, more, nil
}
