package server

import (
	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	p := parsePagination(c)
	users, more, err := s.userService.ListUsers(c.UserContext(), p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(listBody("users", users, more, p))
}

// GetUser handles GET /api/users/:userId
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Name         *string `json:"name"`
		Bio          *string `json:"bio"`
		ProfileImage *string `json:"profileImage"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:       callerID(c),
		Name:         req.Name,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteMyAccount handles DELETE /api/users/me. The current session is ended
// with the account.
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	if err := s.userService.DeleteAccount(c.UserContext(), callerID(c)); err != nil {
		return s.respondError(c, err)
	}
	if err := s.authService.Logout(c.UserContext(), auth.SessionID(c)); err != nil {
		return s.respondError(c, err)
	}
	s.session.ClearCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}
