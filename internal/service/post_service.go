package service

import (
	"context"
	"strings"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
)

const maxContentLen = 50000

type PostService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

type CreatePostInput struct {
	UserID    uint
	Content   string
	ImageURL  string
	Lens      string
	FilmStock string
	Camera    string
	Settings  string
}

type UpdatePostInput struct {
	Actor     Actor
	PostID    uint
	Content   *string
	ImageURL  *string
	Lens      *string
	FilmStock *string
	Camera    *string
	Settings  *string
}

// SurroundingPosts are the voted posts adjacent to one post within its month.
type SurroundingPosts struct {
	Previous []models.Post `json:"previous"`
	Next     []models.Post `json:"next"`
}

// surroundingWindow is how many neighbours are returned on each side.
const surroundingWindow = 2

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo, now: time.Now}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	in.Content = strings.TrimSpace(in.Content)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.Content == "" && in.ImageURL == "" {
		return nil, models.NewValidationError("Content or imageUrl is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post := &models.Post{
		UserID:    in.UserID,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		Lens:      in.Lens,
		FilmStock: in.FilmStock,
		Camera:    in.Camera,
		Settings:  in.Settings,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// ListPosts returns one page of all posts, newest first.
func (s *PostService) ListPosts(ctx context.Context, page repository.Page) ([]models.Post, bool, error) {
	posts, err := s.postRepo.List(ctx, page.Peek())
	if err != nil {
		return nil, false, err
	}
	posts, more := repository.Trim(posts, page)
	return posts, more, nil
}

func (s *PostService) ListUserPosts(ctx context.Context, userID uint, page repository.Page) ([]models.Post, bool, error) {
	posts, err := s.postRepo.ListByUser(ctx, userID, page.Peek())
	if err != nil {
		return nil, false, err
	}
	posts, more := repository.Trim(posts, page)
	return posts, more, nil
}

// Feed returns posts by the user and everyone they follow.
func (s *PostService) Feed(ctx context.Context, userID uint, page repository.Page) ([]models.Post, bool, error) {
	posts, err := s.postRepo.Feed(ctx, userID, page.Peek())
	if err != nil {
		return nil, false, err
	}
	posts, more := repository.Trim(posts, page)
	return posts, more, nil
}

// TopMonthly ranks this month's voted posts by vote count.
func (s *PostService) TopMonthly(ctx context.Context, page repository.Page) ([]models.Post, bool, error) {
	from, to := monthBounds(s.now())
	posts, err := s.postRepo.TopVoted(ctx, from, to, page.Peek())
	if err != nil {
		return nil, false, err
	}
	posts, more := repository.Trim(posts, page)
	return posts, more, nil
}

// Surrounding returns up to two voted posts before and after postID in the
// month the post was created.
func (s *PostService) Surrounding(ctx context.Context, postID uint) (*SurroundingPosts, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	from, to := monthBounds(post.CreatedAt)

	prev, err := s.postRepo.Before(ctx, post.CreatedAt, from, surroundingWindow)
	if err != nil {
		return nil, err
	}
	next, err := s.postRepo.After(ctx, post.CreatedAt, to, surroundingWindow)
	if err != nil {
		return nil, err
	}
	return &SurroundingPosts{Previous: prev, Next: next}, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := in.Actor.requireOwner(post.UserID, "posts"); err != nil {
		return nil, err
	}

	applyString(&post.Content, in.Content)
	applyString(&post.ImageURL, in.ImageURL)
	applyString(&post.Lens, in.Lens)
	applyString(&post.FilmStock, in.FilmStock)
	applyString(&post.Camera, in.Camera)
	applyString(&post.Settings, in.Settings)

	if strings.TrimSpace(post.Content) == "" && strings.TrimSpace(post.ImageURL) == "" {
		return nil, models.NewValidationError("Content or imageUrl is required")
	}
	if len(post.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, actor Actor, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := actor.requireOwnerOrAdmin(post.UserID, "posts"); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID)
}

// monthBounds returns [first of t's month, first of next month) in t's location.
func monthBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 1, 0)
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
