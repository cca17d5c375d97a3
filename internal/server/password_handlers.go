package server

import (
	"github.com/gofiber/fiber/v2"
)

// RequestPasswordReset handles POST /api/password/request-password-reset.
// No mailer exists, so the token is returned to the caller.
func (s *Server) RequestPasswordReset(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	tok, err := s.passwordService.RequestReset(c.UserContext(), req.Email)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Password reset token created",
		"token":   tok.Token,
	})
}

// ValidateResetToken handles GET /api/password/reset-token/:token
func (s *Server) ValidateResetToken(c *fiber.Ctx) error {
	tok, err := s.passwordService.ValidateToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"token":      tok.Token,
		"userId":     tok.UserID,
		"expiration": tok.Expiration,
	})
}

// ResetPassword handles POST /api/password/reset-password
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if err := s.passwordService.ResetPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password has been reset"})
}
