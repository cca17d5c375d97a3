package service

import (
	"context"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
)

type VoteService struct {
	voteRepo repository.VoteRepository
}

func NewVoteService(voteRepo repository.VoteRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo}
}

func (s *VoteService) Vote(ctx context.Context, userID, postID uint) (*models.Vote, error) {
	if postID == 0 {
		return nil, models.NewValidationError("postId is required")
	}
	return s.voteRepo.Create(ctx, userID, postID)
}

func (s *VoteService) Unvote(ctx context.Context, userID, postID uint) error {
	if postID == 0 {
		return models.NewValidationError("postId is required")
	}
	return s.voteRepo.Delete(ctx, userID, postID)
}

func (s *VoteService) HasVoted(ctx context.Context, userID, postID uint) (bool, error) {
	return s.voteRepo.Exists(ctx, userID, postID)
}

func (s *VoteService) ListVotes(ctx context.Context, postID uint, page repository.Page) ([]models.Vote, bool, error) {
	votes, err := s.voteRepo.ListByPost(ctx, postID, page.Peek())
	if err != nil {
		return nil, false, err
	}
	votes, more := repository.Trim(votes, page)
	return votes, more, nil
}
