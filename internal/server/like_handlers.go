package server

import (
	"github.com/1willcobb/myfilmfriends-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetLikes handles GET /api/likes?postId=|commentId=|blogId=
func (s *Server) GetLikes(c *fiber.Ctx) error {
	target, err := s.queryTarget(c)
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	likes, more, err := s.likeService.ListLikes(c.UserContext(), target, p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"likes": likes, "hasNextPage": more})
}

// GetLikeStatus handles GET /api/likes/status
func (s *Server) GetLikeStatus(c *fiber.Ctx) error {
	target, err := s.queryTarget(c)
	if err != nil {
		return nil
	}
	liked, err := s.likeService.IsLiked(c.UserContext(), callerID(c), target)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// GetLike handles GET /api/likes/:likeId
func (s *Server) GetLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "likeId")
	if err != nil {
		return nil
	}
	like, err := s.likeService.GetLike(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(like)
}

// CreateLike handles POST /api/likes with one of postId, commentId or blogId.
func (s *Server) CreateLike(c *fiber.Ctx) error {
	var req struct {
		PostID    uint `json:"postId"`
		CommentID uint `json:"commentId"`
		BlogID    uint `json:"blogId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	target, err := service.ResolveTarget(req.PostID, req.CommentID, req.BlogID)
	if err != nil {
		return s.respondError(c, err)
	}
	like, err := s.likeService.Like(c.UserContext(), callerID(c), target)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// DeleteLike handles DELETE /api/likes?postId=|commentId=|blogId=
func (s *Server) DeleteLike(c *fiber.Ctx) error {
	target, err := s.queryTarget(c)
	if err != nil {
		return nil
	}
	if err := s.likeService.Unlike(c.UserContext(), callerID(c), target); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Like removed successfully"})
}
