package server

import (
	"github.com/1willcobb/myfilmfriends-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	p := parsePagination(c)
	notes, more, err := s.notificationService.ListNotifications(c.UserContext(), callerID(c), p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(listBody("notifications", notes, more, p))
}

// CreateNotification handles POST /api/notifications (admin only)
func (s *Server) CreateNotification(c *fiber.Ctx) error {
	var req struct {
		UserID  uint   `json:"userId"`
		Content string `json:"content"`
		Link    string `json:"link"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	note, err := s.notificationService.CreateNotification(c.UserContext(), service.CreateNotificationInput{
		Actor:   actor(c),
		UserID:  req.UserID,
		Content: req.Content,
		Link:    req.Link,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// MarkNotificationRead handles PATCH /api/notifications/:notificationId/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "notificationId")
	if err != nil {
		return nil
	}
	note, err := s.notificationService.MarkRead(c.UserContext(), callerID(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(note)
}

// DeleteNotification handles DELETE /api/notifications/:notificationId
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	id, err := s.parseID(c, "notificationId")
	if err != nil {
		return nil
	}
	if err := s.notificationService.DeleteNotification(c.UserContext(), callerID(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification deleted successfully"})
}

// DeleteAllNotifications handles DELETE /api/notifications
func (s *Server) DeleteAllNotifications(c *fiber.Ctx) error {
	count, err := s.notificationService.DeleteAll(c.UserContext(), callerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notifications deleted successfully", "count": count})
}
