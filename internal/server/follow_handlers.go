package server

import (
	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/follows
func (s *Server) Follow(c *fiber.Ctx) error {
	var req struct {
		FollowedID uint `json:"followedId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	follow, err := s.followService.Follow(c.UserContext(), callerID(c), req.FollowedID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// Unfollow handles DELETE /api/follows/:followedId
func (s *Server) Unfollow(c *fiber.Ctx) error {
	followedID, err := s.parseID(c, "followedId")
	if err != nil {
		return nil
	}
	if err := s.followService.Unfollow(c.UserContext(), callerID(c), followedID); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed successfully"})
}

// GetFollowers handles GET /api/follows/followers/:userId
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	users, more, err := s.followService.Followers(c.UserContext(), userID, p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(listBody("followers", users, more, p))
}

// GetFollowing handles GET /api/follows/following/:userId
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	users, more, err := s.followService.Following(c.UserContext(), userID, p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(listBody("following", users, more, p))
}
