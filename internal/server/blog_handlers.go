package server

import (
	"github.com/1willcobb/myfilmfriends-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBlogs handles GET /api/blogs
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	p := parsePagination(c)
	blogs, more, err := s.blogService.ListBlogs(c.UserContext(), p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(listBody("blogs", blogs, more, p))
}

// GetBlog handles GET /api/blogs/:blogId
func (s *Server) GetBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "blogId")
	if err != nil {
		return nil
	}
	blog, err := s.blogService.GetBlog(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(blog)
}

type blogRequest struct {
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
	Content  *string `json:"content"`
}

// CreateBlog handles POST /api/blogs
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	blog, err := s.blogService.CreateBlog(c.UserContext(), service.CreateBlogInput{
		AuthorID: callerID(c),
		Title:    deref(req.Title),
		Subtitle: deref(req.Subtitle),
		Content:  deref(req.Content),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

// UpdateBlog handles PUT /api/blogs/:blogId
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "blogId")
	if err != nil {
		return nil
	}
	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	blog, err := s.blogService.UpdateBlog(c.UserContext(), service.UpdateBlogInput{
		Actor:    actor(c),
		BlogID:   id,
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Content:  req.Content,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(blog)
}

// DeleteBlog handles DELETE /api/blogs/:blogId
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "blogId")
	if err != nil {
		return nil
	}
	if err := s.blogService.DeleteBlog(c.UserContext(), actor(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Blog deleted successfully"})
}
