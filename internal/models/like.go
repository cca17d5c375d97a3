package models

import "time"

// Like targets exactly one of a post, a comment or a blog.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post;uniqueIndex:idx_like_user_comment;uniqueIndex:idx_like_user_blog" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PostID    *uint     `gorm:"uniqueIndex:idx_like_user_post" json:"postId,omitempty"`
	CommentID *uint     `gorm:"uniqueIndex:idx_like_user_comment" json:"commentId,omitempty"`
	BlogID    *uint     `gorm:"uniqueIndex:idx_like_user_blog" json:"blogId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeTargetKind names the entity a like or comment points at.
type LikeTargetKind string

// Target kinds.
const (
	TargetPost    LikeTargetKind = "post"
	TargetComment LikeTargetKind = "comment"
	TargetBlog    LikeTargetKind = "blog"
)

// LikeTarget identifies one likeable entity.
type LikeTarget struct {
	Kind LikeTargetKind
	ID   uint
}

// Column is the foreign-key column on likes and comments for this target.
func (t LikeTarget) Column() string {
	return string(t.Kind) + "_id"
}

// Table is the table holding the target's counters.
func (t LikeTarget) Table() string {
	return string(t.Kind) + "s"
}
