// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account. Counter columns mirror the cardinality of their relations.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Username       string         `gorm:"uniqueIndex;not null" json:"username"`
	Role           string         `gorm:"not null;default:user" json:"role"`
	Bio            string         `gorm:"type:text" json:"bio"`
	ProfileImage   string         `json:"profileImage"`
	FollowerCount  int            `gorm:"not null;default:0" json:"followerCount"`
	FollowingCount int            `gorm:"not null;default:0" json:"followingCount"`
	PostCount      int            `gorm:"not null;default:0" json:"postCount"`
	Password       *Password      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Password holds the bcrypt hash owned 1:1 by a user.
type Password struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`
	Hash      string    `gorm:"not null" json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Session is a server-side login session keyed by an opaque id.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// PasswordResetToken is a single-use credential for replacing a password.
type PasswordResetToken struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Token      string    `gorm:"uniqueIndex;not null" json:"token"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	Expiration time.Time `gorm:"not null" json:"expiration"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserFollow is a directed follow edge.
type UserFollow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"uniqueIndex:idx_follow_pair;not null" json:"followerId"`
	Follower   User      `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	FollowedID uint      `gorm:"uniqueIndex:idx_follow_pair;index;not null" json:"followedId"`
	Followed   User      `gorm:"foreignKey:FollowedID" json:"followed,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
