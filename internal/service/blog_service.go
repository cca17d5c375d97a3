package service

import (
	"context"
	"strings"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
)

const maxTitleLen = 300

type BlogService struct {
	blogRepo repository.BlogRepository
}

type CreateBlogInput struct {
	AuthorID uint
	Title    string
	Subtitle string
	Content  string
}

type UpdateBlogInput struct {
	Actor    Actor
	BlogID   uint
	Title    *string
	Subtitle *string
	Content  *string
}

func NewBlogService(blogRepo repository.BlogRepository) *BlogService {
	return &BlogService{blogRepo: blogRepo}
}

func validateBlog(title, content string) error {
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

func (s *BlogService) CreateBlog(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	blog := &models.Blog{
		AuthorID: in.AuthorID,
		Title:    strings.TrimSpace(in.Title),
		Subtitle: strings.TrimSpace(in.Subtitle),
		Content:  strings.TrimSpace(in.Content),
	}
	if err := validateBlog(blog.Title, blog.Content); err != nil {
		return nil, err
	}
	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}
	return s.blogRepo.GetByID(ctx, blog.ID, false)
}

// GetBlog returns the blog with its comments, oldest first.
func (s *BlogService) GetBlog(ctx context.Context, id uint) (*models.Blog, error) {
	return s.blogRepo.GetByID(ctx, id, true)
}

func (s *BlogService) ListBlogs(ctx context.Context, page repository.Page) ([]models.Blog, bool, error) {
	blogs, err := s.blogRepo.List(ctx, page.Peek())
	if err != nil {
		return nil, false, err
	}
	blogs, more := repository.Trim(blogs, page)
	return blogs, more, nil
}

func (s *BlogService) UpdateBlog(ctx context.Context, in UpdateBlogInput) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, in.BlogID, false)
	if err != nil {
		return nil, err
	}
	if err := in.Actor.requireOwner(blog.AuthorID, "blogs"); err != nil {
		return nil, err
	}

	applyString(&blog.Title, in.Title)
	applyString(&blog.Subtitle, in.Subtitle)
	applyString(&blog.Content, in.Content)
	if err := validateBlog(blog.Title, blog.Content); err != nil {
		return nil, err
	}

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}
	return s.blogRepo.GetByID(ctx, blog.ID, false)
}

func (s *BlogService) DeleteBlog(ctx context.Context, actor Actor, blogID uint) error {
	blog, err := s.blogRepo.GetByID(ctx, blogID, false)
	if err != nil {
		return err
	}
	if err := actor.requireOwnerOrAdmin(blog.AuthorID, "blogs"); err != nil {
		return err
	}
	return s.blogRepo.Delete(ctx, blogID)
}
