package service

import (
	"context"
	"strings"
	"testing"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
	"github.com/1willcobb/myfilmfriends-server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogService_Validation(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewBlogService(repository.NewBlogRepository(db))
	u := testutil.CreateUser(t, db, "alice", "pw")

	tests := []struct {
		name string
		in   CreateBlogInput
		msg  string
	}{
		{"missing title", CreateBlogInput{AuthorID: u.ID, Content: "body"}, "Title is required"},
		{"long title", CreateBlogInput{AuthorID: u.ID, Title: strings.Repeat("t", 301), Content: "body"}, "Title too long (max 300 characters)"},
		{"missing content", CreateBlogInput{AuthorID: u.ID, Title: "Pushing HP5"}, "Content is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBlog(context.Background(), tt.in)
			assertAppError(t, err, models.CodeValidation, tt.msg)
		})
	}
}

func TestBlogService_OwnershipAndComments(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewBlogService(repository.NewBlogRepository(db))
	comments := NewCommentService(repository.NewCommentRepository(db))
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "alice", "pw")
	other := testutil.CreateUser(t, db, "bob", "pw")
	admin := testutil.CreateUser(t, db, "root", "pw")

	blog, err := svc.CreateBlog(ctx, CreateBlogInput{AuthorID: author.ID, Title: " Pushing HP5 ", Content: "Two stops."})
	require.NoError(t, err)
	assert.Equal(t, "Pushing HP5", blog.Title)

	_, err = svc.UpdateBlog(ctx, UpdateBlogInput{Actor: Actor{ID: other.ID}, BlogID: blog.ID, Title: strPtr("mine")})
	assertAppError(t, err, models.CodeForbidden, "You can only modify your own blogs")

	updated, err := svc.UpdateBlog(ctx, UpdateBlogInput{Actor: Actor{ID: author.ID}, BlogID: blog.ID, Subtitle: strPtr("dev notes")})
	require.NoError(t, err)
	assert.Equal(t, "dev notes", updated.Subtitle)
	assert.Equal(t, "Pushing HP5", updated.Title)

	blogID := blog.ID
	for _, text := range []string{"first", "second"} {
		_, err := comments.CreateComment(ctx, CreateCommentInput{UserID: other.ID, BlogID: &blogID, Content: text})
		require.NoError(t, err)
	}
	got, err := svc.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "first", got.Comments[0].Content)
	assert.Equal(t, 2, got.CommentCount)

	err = svc.DeleteBlog(ctx, Actor{ID: other.ID}, blog.ID)
	assertAppError(t, err, models.CodeForbidden, "")

	require.NoError(t, svc.DeleteBlog(ctx, Actor{ID: admin.ID, Admin: true}, blog.ID))
	_, err = svc.GetBlog(ctx, blog.ID)
	assertAppError(t, err, models.CodeNotFound, "")
}

func TestVoteAndFollowServices(t *testing.T) {
	db := testutil.NewTestDB(t)
	votes := NewVoteService(repository.NewVoteRepository(db))
	follows := NewFollowService(repository.NewFollowRepository(db))
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "alice", "pw")
	b := testutil.CreateUser(t, db, "bob", "pw")
	post := &models.Post{UserID: b.ID, Content: "Ektar landscape"}
	require.NoError(t, db.Create(post).Error)

	_, err := votes.Vote(ctx, a.ID, 0)
	assertAppError(t, err, models.CodeValidation, "postId is required")

	_, err = votes.Vote(ctx, a.ID, post.ID)
	require.NoError(t, err)
	voted, err := votes.HasVoted(ctx, a.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, voted)

	_, err = votes.Vote(ctx, a.ID, post.ID)
	assertAppError(t, err, models.CodeConflict, "")
	assert.Equal(t, 1, testutil.Reload[models.Post](t, db, post.ID).VoteCount)

	_, err = follows.Follow(ctx, a.ID, a.ID)
	assertAppError(t, err, models.CodeValidation, "You cannot follow yourself")

	_, err = follows.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	followers, more, err := follows.Followers(ctx, b.ID, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, followers, 1)
	assert.Equal(t, a.ID, followers[0].ID)

	require.NoError(t, follows.Unfollow(ctx, a.ID, b.ID))
	assert.Equal(t, 0, testutil.Reload[models.User](t, db, b.ID).FollowerCount)
}
