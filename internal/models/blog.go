package models

import "time"

// Blog is a long-form article.
type Blog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AuthorID     uint      `gorm:"not null;index" json:"authorId"`
	Author       User      `gorm:"foreignKey:AuthorID" json:"author"`
	Title        string    `gorm:"not null" json:"title"`
	Subtitle     string    `json:"subtitle"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	LikeCount    int       `gorm:"not null;default:0" json:"likeCount"`
	CommentCount int       `gorm:"not null;default:0" json:"commentCount"`
	Comments     []Comment `gorm:"foreignKey:BlogID" json:"comments,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
