package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/notifications"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
)

const maxMessageLen = 5000

// ChatService provides chat and message business logic.
type ChatService struct {
	chatRepo      repository.ChatRepository
	notifications *NotificationService
}

func NewChatService(chatRepo repository.ChatRepository, notifications *NotificationService) *ChatService {
	return &ChatService{chatRepo: chatRepo, notifications: notifications}
}

// participantSet adds the caller, removes duplicates and sorts the ids.
func participantSet(callerID uint, ids []uint) ([]uint, error) {
	seen := map[uint]bool{callerID: true}
	set := []uint{callerID}
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		set = append(set, id)
	}
	if len(set) < 2 {
		return nil, models.NewValidationError("At least one other participant is required")
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set, nil
}

// CreateChat opens a chat between the caller and participantIDs, reusing an
// existing chat with exactly the same participants.
func (s *ChatService) CreateChat(ctx context.Context, callerID uint, participantIDs []uint) (*models.Chat, error) {
	set, err := participantSet(callerID, participantIDs)
	if err != nil {
		return nil, err
	}
	existing, err := s.chatRepo.FindByParticipants(ctx, set)
	switch {
	case err == nil:
		return existing, nil
	case !models.IsCode(err, models.CodeNotFound):
		return nil, err
	}
	return s.chatRepo.Create(ctx, set)
}

// FindChat returns the chat whose participants are exactly the caller plus participantIDs.
func (s *ChatService) FindChat(ctx context.Context, callerID uint, participantIDs []uint) (*models.Chat, error) {
	set, err := participantSet(callerID, participantIDs)
	if err != nil {
		return nil, err
	}
	return s.chatRepo.FindByParticipants(ctx, set)
}

// ListChats summarizes the caller's chats, most recently active first.
func (s *ChatService) ListChats(ctx context.Context, callerID uint) ([]models.ChatSummary, error) {
	chats, err := s.chatRepo.ListForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.ChatSummary, 0, len(chats))
	for i := range chats {
		chat := &chats[i]
		last, err := s.chatRepo.LastMessage(ctx, chat.ID)
		if err != nil {
			return nil, err
		}
		summary := models.ChatSummary{ChatID: chat.ID, LastMessage: last, LastActivity: chat.UpdatedAt}
		for _, p := range chat.Participants {
			if p.ID != callerID {
				summary.OtherUsers = append(summary.OtherUsers, p)
			}
		}
		if last != nil && last.CreatedAt.After(summary.LastActivity) {
			summary.LastActivity = last.CreatedAt
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// memberChat loads a chat the caller participates in. Non-participants get 403.
func (s *ChatService) memberChat(ctx context.Context, callerID, chatID uint) (*models.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(callerID) {
		return nil, models.NewForbiddenError("You are not a participant in this chat")
	}
	return chat, nil
}

func (s *ChatService) GetChat(ctx context.Context, callerID, chatID uint) (*models.Chat, error) {
	return s.memberChat(ctx, callerID, chatID)
}

func (s *ChatService) DeleteChat(ctx context.Context, callerID, chatID uint) error {
	if _, err := s.memberChat(ctx, callerID, chatID); err != nil {
		return err
	}
	return s.chatRepo.Delete(ctx, chatID)
}

func (s *ChatService) ListMessages(ctx context.Context, callerID, chatID uint, page repository.Page) ([]models.Message, bool, error) {
	if _, err := s.memberChat(ctx, callerID, chatID); err != nil {
		return nil, false, err
	}
	msgs, err := s.chatRepo.ListMessages(ctx, chatID, page.Peek())
	if err != nil {
		return nil, false, err
	}
	msgs, more := repository.Trim(msgs, page)
	return msgs, more, nil
}

// SendMessage stores the message and notifies every other participant.
func (s *ChatService) SendMessage(ctx context.Context, callerID, chatID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 5000 characters)")
	}

	chat, err := s.memberChat(ctx, callerID, chatID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{ChatID: chatID, UserID: callerID, Content: content}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.notifications != nil {
		sender := msg.User.Username
		if sender == "" {
			sender = "someone"
		}
		link := fmt.Sprintf("/chats/%d", chatID)
		for _, p := range chat.Participants {
			if p.ID == callerID {
				continue
			}
			if _, err := s.notifications.Notify(ctx, p.ID, "New message from "+sender, link); err != nil {
				observability.Logger.WarnContext(ctx, "failed to notify chat participant",
					"chat_id", chatID, "recipient_id", p.ID, "error", err)
			}
			s.notifications.publish(ctx, p.ID, notifications.Event{Type: notifications.EventChatMessage, Data: msg})
		}
	}
	return msg, nil
}

// DeleteMessage lets the sender or an admin remove a message.
func (s *ChatService) DeleteMessage(ctx context.Context, actor Actor, messageID uint) error {
	msg, err := s.chatRepo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if err := actor.requireOwnerOrAdmin(msg.UserID, "messages"); err != nil {
		return err
	}
	return s.chatRepo.DeleteMessage(ctx, messageID)
}
