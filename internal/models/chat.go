package models

import "time"

// Chat is a conversation between two or more users.
type Chat struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Participants []User    `gorm:"many2many:chat_participants;" json:"participants"`
	Messages     []Message `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasParticipant reports whether userID is part of the chat.
func (c *Chat) HasParticipant(userID uint) bool {
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// Message is a chat message.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    uint      `gorm:"not null;index" json:"chatId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatSummary is a chat as listed for one participant.
type ChatSummary struct {
	ChatID       uint      `json:"chatId"`
	OtherUsers   []User    `json:"otherUsers"`
	LastMessage  *Message  `json:"lastMessage,omitempty"`
	LastActivity time.Time `json:"lastActivity"`
}
