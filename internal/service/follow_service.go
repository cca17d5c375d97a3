package service

import (
	"context"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
}

func NewFollowService(followRepo repository.FollowRepository) *FollowService {
	return &FollowService{followRepo: followRepo}
}

func (s *FollowService) Follow(ctx context.Context, followerID, followedID uint) (*models.UserFollow, error) {
	if followedID == 0 {
		return nil, models.NewValidationError("followedId is required")
	}
	return s.followRepo.Follow(ctx, followerID, followedID)
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return s.followRepo.Unfollow(ctx, followerID, followedID)
}

func (s *FollowService) Followers(ctx context.Context, userID uint, page repository.Page) ([]models.User, bool, error) {
	users, err := s.followRepo.Followers(ctx, userID, page.Peek())
	if err != nil {
		return nil, false, err
	}
	users, more := repository.Trim(users, page)
	return users, more, nil
}

func (s *FollowService) Following(ctx context.Context, userID uint, page repository.Page) ([]models.User, bool, error) {
	users, err := s.followRepo.Following(ctx, userID, page.Peek())
	if err != nil {
		return nil, false, err
	}
	users, more := repository.Trim(users, page)
	return users, more, nil
}
