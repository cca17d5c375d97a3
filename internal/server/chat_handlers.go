package server

import (
	"github.com/gofiber/fiber/v2"
)

type participantsRequest struct {
	ParticipantIDs []uint `json:"participantIds"`
}

// CreateChat handles POST /api/chats
func (s *Server) CreateChat(c *fiber.Ctx) error {
	var req participantsRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	chat, err := s.chatService.CreateChat(c.UserContext(), callerID(c), req.ParticipantIDs)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(chat)
}

// GetChats handles GET /api/chats
func (s *Server) GetChats(c *fiber.Ctx) error {
	chats, err := s.chatService.ListChats(c.UserContext(), callerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"chats": chats})
}

// FindChatByParticipants handles POST /api/chats/participants
func (s *Server) FindChatByParticipants(c *fiber.Ctx) error {
	var req participantsRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	chat, err := s.chatService.FindChat(c.UserContext(), callerID(c), req.ParticipantIDs)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(chat)
}

// GetChat handles GET /api/chats/:chatId
func (s *Server) GetChat(c *fiber.Ctx) error {
	id, err := s.parseID(c, "chatId")
	if err != nil {
		return nil
	}
	chat, err := s.chatService.GetChat(c.UserContext(), callerID(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(chat)
}

// DeleteChat handles DELETE /api/chats/:chatId
func (s *Server) DeleteChat(c *fiber.Ctx) error {
	id, err := s.parseID(c, "chatId")
	if err != nil {
		return nil
	}
	if err := s.chatService.DeleteChat(c.UserContext(), callerID(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Chat deleted successfully"})
}

// GetMessages handles GET /api/chats/:chatId/messages
func (s *Server) GetMessages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "chatId")
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	messages, more, err := s.chatService.ListMessages(c.UserContext(), callerID(c), id, p)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(listBody("messages", messages, more, p))
}

// SendMessage handles POST /api/chats/:chatId/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "chatId")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	msg, err := s.chatService.SendMessage(c.UserContext(), callerID(c), id, req.Content)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// DeleteMessage handles DELETE /api/messages/:messageId
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "messageId")
	if err != nil {
		return nil
	}
	if err := s.chatService.DeleteMessage(c.UserContext(), actor(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Message deleted successfully"})
}
