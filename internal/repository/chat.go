package repository

import (
	"context"
	"errors"

	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines persistence operations for chats and their messages.
type ChatRepository interface {
	Create(ctx context.Context, participantIDs []uint) (*models.Chat, error)
	GetByID(ctx context.Context, id uint) (*models.Chat, error)
	FindByParticipants(ctx context.Context, participantIDs []uint) (*models.Chat, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Chat, error)
	Delete(ctx context.Context, id uint) error

	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessage(ctx context.Context, id uint) (*models.Message, error)
	ListMessages(ctx context.Context, chatID uint, page Page) ([]models.Message, error)
	LastMessage(ctx context.Context, chatID uint) (*models.Message, error)
	DeleteMessage(ctx context.Context, id uint) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository returns a new ChatRepository implementation.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, participantIDs []uint) (*models.Chat, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", participantIDs).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(users) != len(participantIDs) {
		return nil, models.NewNotFoundError("User", participantIDs)
	}

	chat := &models.Chat{Participants: users}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Participants.*").Create(chat).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return chat, nil
}

func (r *chatRepository) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.WithContext(ctx).Preload("Participants").First(&chat, id).Error; err != nil {
		return nil, translate(err, "Chat", id)
	}
	return &chat, nil
}

// FindByParticipants returns the chat whose participant set is exactly participantIDs.
func (r *chatRepository) FindByParticipants(ctx context.Context, participantIDs []uint) (*models.Chat, error) {
	var chatIDs []uint
	err := r.db.WithContext(ctx).Table("chat_participants").
		Select("chat_id").
		Group("chat_id").
		Having("COUNT(*) = ? AND SUM(CASE WHEN user_id IN ? THEN 1 ELSE 0 END) = ?",
			len(participantIDs), participantIDs, len(participantIDs)).
		Order("chat_id ASC").
		Limit(1).
		Pluck("chat_id", &chatIDs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(chatIDs) == 0 {
		return nil, models.NewNotFoundError("Chat", participantIDs)
	}
	return r.GetByID(ctx, chatIDs[0])
}

func (r *chatRepository) ListForUser(ctx context.Context, userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	mine := r.db.Table("chat_participants").Select("chat_id").Where("user_id = ?", userID)
	if err := r.db.WithContext(ctx).Preload("Participants").
		Where("id IN (?)", mine).
		Order("updated_at DESC, id DESC").
		Find(&chats).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return chats, nil
}

// Delete removes the chat, its messages and its participant rows.
func (r *chatRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat models.Chat
		if err := tx.First(&chat, id).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&chat).Association("Participants").Clear(); err != nil {
			return err
		}
		return tx.Delete(&chat).Error
	})
	return translate(err, "Chat", id)
}

// CreateMessage stores the message and touches the chat's activity time.
func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{ID: msg.ChatID}).Update("updated_at", msg.CreatedAt).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return translate(r.db.WithContext(ctx).First(&msg.User, msg.UserID).Error, "User", msg.UserID)
}

func (r *chatRepository) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).Preload("User").First(&msg, id).Error; err != nil {
		return nil, translate(err, "Message", id)
	}
	return &msg, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID uint, page Page) ([]models.Message, error) {
	var msgs []models.Message
	if err := r.db.WithContext(ctx).Preload("User").
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

// LastMessage returns nil, nil for a chat without messages.
func (r *chatRepository) LastMessage(ctx context.Context, chatID uint) (*models.Message, error) {
	var msg models.Message
	err := r.db.WithContext(ctx).Preload("User").
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &msg, nil
}

func (r *chatRepository) DeleteMessage(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Message{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Message", id)
	}
	return nil
}
