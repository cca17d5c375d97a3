package server

import (
	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPostVotes handles GET /api/votes/post/:postId
func (s *Server) GetPostVotes(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	votes, more, err := s.voteService.ListVotes(c.UserContext(), postID, p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"votes": votes, "hasNextPage": more})
}

// requirePostID reads the mandatory postId query parameter.
func (s *Server) requirePostID(c *fiber.Ctx) (uint, error) {
	postID, err := s.queryID(c, "postId")
	if err != nil {
		return 0, err
	}
	if postID == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("postId is required"))
		return 0, errResponseWritten
	}
	return postID, nil
}

// GetVoteStatus handles GET /api/votes/status?postId=
func (s *Server) GetVoteStatus(c *fiber.Ctx) error {
	postID, err := s.requirePostID(c)
	if err != nil {
		return nil
	}
	voted, err := s.voteService.HasVoted(c.UserContext(), callerID(c), postID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"hasVoted": voted})
}

// CreateVote handles POST /api/votes
func (s *Server) CreateVote(c *fiber.Ctx) error {
	var req struct {
		PostID uint `json:"postId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	vote, err := s.voteService.Vote(c.UserContext(), callerID(c), req.PostID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(vote)
}

// DeleteVote handles DELETE /api/votes?postId=
func (s *Server) DeleteVote(c *fiber.Ctx) error {
	postID, err := s.requirePostID(c)
	if err != nil {
		return nil
	}
	if err := s.voteService.Unvote(c.UserContext(), callerID(c), postID); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vote removed successfully"})
}
