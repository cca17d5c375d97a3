package service

import (
	"context"
	"strings"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
}

type CreateCommentInput struct {
	UserID  uint
	PostID  *uint
	BlogID  *uint
	Content string
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

func validateComment(content string) error {
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:  in.UserID,
		PostID:  in.PostID,
		BlogID:  in.BlogID,
		Content: strings.TrimSpace(in.Content),
	}
	if _, ok := repository.CommentTarget(comment); !ok {
		return nil, models.NewValidationError("Exactly one of postId or blogId is required")
	}
	if err := validateComment(comment.Content); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments lists comments on a post or blog, newest first.
func (s *CommentService) ListComments(ctx context.Context, target models.LikeTarget, page repository.Page) ([]models.Comment, bool, error) {
	if target.Kind == models.TargetComment {
		return nil, false, models.NewValidationError("Comments belong to a post or a blog")
	}
	comments, err := s.commentRepo.ListByTarget(ctx, target, page.Peek())
	if err != nil {
		return nil, false, err
	}
	comments, more := repository.Trim(comments, page)
	return comments, more, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, actor Actor, commentID uint, content string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := actor.requireOwner(comment.UserID, "comments"); err != nil {
		return nil, err
	}
	comment.Content = strings.TrimSpace(content)
	if err := validateComment(comment.Content); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, actor Actor, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := actor.requireOwnerOrAdmin(comment.UserID, "comments"); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}
