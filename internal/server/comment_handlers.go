package server

import (
	"github.com/1willcobb/myfilmfriends-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/comments?postId=|blogId=
func (s *Server) GetComments(c *fiber.Ctx) error {
	target, err := s.queryTarget(c)
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	comments, more, err := s.commentService.ListComments(c.UserContext(), target, p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(listBody("comments", comments, more, p))
}

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
		PostID  *uint  `json:"postId"`
		BlogID  *uint  `json:"blogId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  callerID(c),
		PostID:  req.PostID,
		BlogID:  req.BlogID,
		Content: req.Content,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	comment, err := s.commentService.UpdateComment(c.UserContext(), actor(c), id, req.Content)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	if err := s.commentService.DeleteComment(c.UserContext(), actor(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
