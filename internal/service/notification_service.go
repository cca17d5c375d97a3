package service

import (
	"context"
	"strings"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/notifications"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
)

// Publisher pushes realtime events to a user.
type Publisher interface {
	PublishUser(ctx context.Context, userID uint, event notifications.Event) error
}

// NotificationService stores notifications and pushes them to live subscribers.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	publisher        Publisher
}

type CreateNotificationInput struct {
	Actor   Actor
	UserID  uint
	Content string
	Link    string
}

func NewNotificationService(notificationRepo repository.NotificationRepository, publisher Publisher) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, publisher: publisher}
}

// CreateNotification stores a notification for another user. Only admins may
// address users other than themselves.
func (s *NotificationService) CreateNotification(ctx context.Context, in CreateNotificationInput) (*models.Notification, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("userId is required")
	}
	if !in.Actor.Admin && in.Actor.ID != in.UserID {
		return nil, models.NewForbiddenError("Admin access required")
	}
	return s.Notify(ctx, in.UserID, in.Content, in.Link)
}

// Notify stores the notification and publishes it. Publish failures are logged
// and do not fail the write.
func (s *NotificationService) Notify(ctx context.Context, userID uint, content, link string) (*models.Notification, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	n := &models.Notification{UserID: userID, Content: content, Link: link}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.publish(ctx, userID, notifications.Event{Type: notifications.EventNotification, Data: n})
	return n, nil
}

func (s *NotificationService) publish(ctx context.Context, userID uint, event notifications.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishUser(ctx, userID, event); err != nil {
		observability.Logger.WarnContext(ctx, "failed to publish notification",
			"recipient_id", userID, "type", event.Type, "error", err)
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID uint, page repository.Page) ([]models.Notification, bool, error) {
	rows, err := s.notificationRepo.ListByUser(ctx, userID, page.Peek())
	if err != nil {
		return nil, false, err
	}
	rows, more := repository.Trim(rows, page)
	return rows, more, nil
}

// owned loads the notification and hides other users' rows as not found.
func (s *NotificationService) owned(ctx context.Context, userID, id uint) (*models.Notification, error) {
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, models.NewNotFoundError("Notification", id)
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) (*models.Notification, error) {
	n, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, userID, id uint) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.notificationRepo.Delete(ctx, id)
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.DeleteAllForUser(ctx, userID)
}
