package repository

import (
	"context"

	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"gorm.io/gorm"
)

// BlogRepository defines persistence operations for blogs.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uint, withComments bool) (*models.Blog, error)
	List(ctx context.Context, page Page) ([]models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uint) error
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository returns a new BlogRepository implementation.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Comments").Create(blog).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id uint, withComments bool) (*models.Blog, error) {
	var blog models.Blog
	q := r.db.WithContext(ctx).Preload("Author")
	if withComments {
		q = q.Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).Preload("Comments.User")
	}
	if err := q.First(&blog, id).Error; err != nil {
		return nil, translate(err, "Blog", id)
	}
	return &blog, nil
}

func (r *blogRepository) List(ctx context.Context, page Page) ([]models.Blog, error) {
	var blogs []models.Blog
	if err := r.db.WithContext(ctx).Preload("Author").
		Order("created_at DESC, id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&blogs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	res := r.db.WithContext(ctx).Model(&models.Blog{ID: blog.ID}).
		Select("Title", "Subtitle", "Content").
		Updates(blog)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Blog", blog.ID)
	}
	return nil
}

// Delete removes the blog with its likes, comments and the comments' likes.
func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blog models.Blog
		if err := tx.First(&blog, id).Error; err != nil {
			return err
		}
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("blog_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&blog).Error
	})
	return translate(err, "Blog", id)
}
