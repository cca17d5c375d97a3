package service

import (
	"context"
	"testing"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
	"github.com/1willcobb/myfilmfriends-server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name                      string
		postID, commentID, blogID uint
		want                      models.LikeTarget
		wantErr                   bool
	}{
		{name: "post", postID: 1, want: models.LikeTarget{Kind: models.TargetPost, ID: 1}},
		{name: "comment", commentID: 2, want: models.LikeTarget{Kind: models.TargetComment, ID: 2}},
		{name: "blog", blogID: 3, want: models.LikeTarget{Kind: models.TargetBlog, ID: 3}},
		{name: "none", wantErr: true},
		{name: "two", postID: 1, blogID: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTarget(tt.postID, tt.commentID, tt.blogID)
			if tt.wantErr {
				assertAppError(t, err, models.CodeValidation, "")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLikeService_EachLikeMovesCounterByOne(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	likes := NewLikeService(repository.NewLikeRepository(db))
	blogs := NewBlogService(repository.NewBlogRepository(db))
	author := testutil.CreateUser(t, db, "alice", "pw")
	fan := testutil.CreateUser(t, db, "bob", "pw")

	blog, err := blogs.CreateBlog(ctx, CreateBlogInput{AuthorID: author.ID, Title: "Stand development", Content: "Rodinal 1:100"})
	require.NoError(t, err)
	target := models.LikeTarget{Kind: models.TargetBlog, ID: blog.ID}

	_, err = likes.Like(ctx, fan.ID, target)
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.Reload[models.Blog](t, db, blog.ID).LikeCount)

	liked, err := likes.IsLiked(ctx, fan.ID, target)
	require.NoError(t, err)
	assert.True(t, liked)

	_, err = likes.Like(ctx, fan.ID, target)
	assertAppError(t, err, models.CodeConflict, "")
	assert.Equal(t, 1, testutil.Reload[models.Blog](t, db, blog.ID).LikeCount)

	require.NoError(t, likes.Unlike(ctx, fan.ID, target))
	assert.Equal(t, 0, testutil.Reload[models.Blog](t, db, blog.ID).LikeCount)

	err = likes.Unlike(ctx, fan.ID, target)
	assertAppError(t, err, models.CodeNotFound, "")
	assert.Equal(t, 0, testutil.Reload[models.Blog](t, db, blog.ID).LikeCount)
}

func TestCommentService_TargetsAndOwnership(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	comments := NewCommentService(repository.NewCommentRepository(db))
	posts := NewPostService(repository.NewPostRepository(db))
	alice := testutil.CreateUser(t, db, "alice", "pw")
	bob := testutil.CreateUser(t, db, "bob", "pw")

	post, err := posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Content: "Ektar"})
	require.NoError(t, err)

	blogID := uint(1)
	_, err = comments.CreateComment(ctx, CreateCommentInput{UserID: bob.ID, PostID: &post.ID, BlogID: &blogID, Content: "both"})
	assertAppError(t, err, models.CodeValidation, "")
	_, err = comments.CreateComment(ctx, CreateCommentInput{UserID: bob.ID, PostID: &post.ID, Content: " "})
	assertAppError(t, err, models.CodeValidation, "")

	c, err := comments.CreateComment(ctx, CreateCommentInput{UserID: bob.ID, PostID: &post.ID, Content: "Great tones"})
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.Reload[models.Post](t, db, post.ID).CommentCount)

	_, err = comments.UpdateComment(ctx, Actor{ID: alice.ID}, c.ID, "edited")
	assertAppError(t, err, models.CodeForbidden, "")

	list, more, err := comments.ListComments(ctx, models.LikeTarget{Kind: models.TargetPost, ID: post.ID}, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].User.Username)

	require.NoError(t, comments.DeleteComment(ctx, Actor{ID: alice.ID, Admin: true}, c.ID))
	assert.Equal(t, 0, testutil.Reload[models.Post](t, db, post.ID).CommentCount)
}
