package models

import "time"

// Post is a photo post. Counters mirror likes, comments and votes.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"userId"`
	User         User      `gorm:"foreignKey:UserID" json:"user"`
	Content      string    `gorm:"type:text" json:"content"`
	ImageURL     string    `json:"imageUrl"`
	Lens         string    `json:"lens"`
	FilmStock    string    `json:"filmStock"`
	Camera       string    `json:"camera"`
	Settings     string    `json:"settings"`
	LikeCount    int       `gorm:"not null;default:0" json:"likeCount"`
	CommentCount int       `gorm:"not null;default:0" json:"commentCount"`
	VoteCount    int       `gorm:"not null;default:0" json:"voteCount"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Vote is a user's up-vote on a post.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_vote_user_post;not null" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PostID    uint      `gorm:"uniqueIndex:idx_vote_user_post;index;not null" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}
