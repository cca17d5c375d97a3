package server

import (
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

// authResponse is returned by signup and login.
type authResponse struct {
	User      *models.User `json:"user"`
	SessionID string       `json:"sessionId"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func (s *Server) writeAuth(c *fiber.Ctx, status int, res *service.AuthResult) error {
	s.session.SetCookie(c, res.SessionID)
	c.Set(auth.SessionHeaderName, res.SessionID)
	return c.Status(status).JSON(authResponse{
		User:      res.User,
		SessionID: res.SessionID,
		Token:     res.Token,
		ExpiresAt: res.TokenExpiresAt,
	})
}

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	res, err := s.authService.Signup(c.UserContext(), service.SignupInput{
		Name:           req.Name,
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		PriorSessionID: auth.SessionID(c),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return s.writeAuth(c, fiber.StatusCreated, res)
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	res, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Email:          req.Email,
		Password:       req.Password,
		PriorSessionID: auth.SessionID(c),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return s.writeAuth(c, fiber.StatusOK, res)
}

// Logout handles POST /api/auth/logout. It succeeds without a session.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), auth.SessionID(c)); err != nil {
		return s.respondError(c, err)
	}
	s.session.ClearCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Refresh handles POST /api/auth/refresh. The token comes from the body or the
// Authorization header and may be expired.
func (s *Server) Refresh(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}
	_ = c.BodyParser(&req)
	raw := req.Token
	if raw == "" {
		raw = auth.BearerToken(c)
	}

	token, exp, err := s.authService.Refresh(c.UserContext(), raw)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token, "expiresAt": exp})
}

// Me handles GET /api/auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.authService.Me(c.UserContext(), callerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}
