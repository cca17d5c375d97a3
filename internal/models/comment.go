package models

import "time"

// Comment belongs to exactly one of a post or a blog.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	PostID    *uint     `gorm:"index" json:"postId,omitempty"`
	BlogID    *uint     `gorm:"index" json:"blogId,omitempty"`
	LikeCount int       `gorm:"not null;default:0" json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
