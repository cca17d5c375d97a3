package server

import (
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
	"github.com/1willcobb/myfilmfriends-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

func postList(c *fiber.Ctx, posts []models.Post, more bool, p repository.Page) error {
	return c.JSON(listBody("posts", posts, more, p))
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c)
	posts, more, err := s.postService.ListPosts(c.UserContext(), p)
	if err != nil {
		return s.respondError(c, err)
	}
	return postList(c, posts, more, p)
}

// GetFeed handles GET /api/posts/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c)
	posts, more, err := s.postService.Feed(c.UserContext(), callerID(c), p)
	if err != nil {
		return s.respondError(c, err)
	}
	return postList(c, posts, more, p)
}

// GetUserPosts handles GET /api/posts/user/:userId
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	posts, more, err := s.postService.ListUserPosts(c.UserContext(), userID, p)
	if err != nil {
		return s.respondError(c, err)
	}
	return postList(c, posts, more, p)
}

// GetTopMonthlyPosts handles GET /api/posts/top/monthly
func (s *Server) GetTopMonthlyPosts(c *fiber.Ctx) error {
	p := parsePagination(c)
	posts, more, err := s.postService.TopMonthly(c.UserContext(), p)
	if err != nil {
		return s.respondError(c, err)
	}
	return postList(c, posts, more, p)
}

// GetSurroundingPosts handles GET /api/posts/:postId/surrounding
func (s *Server) GetSurroundingPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	around, err := s.postService.Surrounding(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(around)
}

// GetPost handles GET /api/posts/:postId
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(post)
}

type postRequest struct {
	Content   *string `json:"content"`
	ImageURL  *string `json:"imageUrl"`
	Lens      *string `json:"lens"`
	FilmStock *string `json:"filmStock"`
	Camera    *string `json:"camera"`
	Settings  *string `json:"settings"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:    callerID(c),
		Content:   deref(req.Content),
		ImageURL:  deref(req.ImageURL),
		Lens:      deref(req.Lens),
		FilmStock: deref(req.FilmStock),
		Camera:    deref(req.Camera),
		Settings:  deref(req.Settings),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:postId
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		Actor:     actor(c),
		PostID:    id,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Lens:      req.Lens,
		FilmStock: req.FilmStock,
		Camera:    req.Camera,
		Settings:  req.Settings,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:postId
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), actor(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}
