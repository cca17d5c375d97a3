package service

import (
	"context"
	"testing"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
	"github.com/1willcobb/myfilmfriends-server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPostService_CreateValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db))
	u := testutil.CreateUser(t, db, "alice", "pw")

	tests := []struct {
		name    string
		in      CreatePostInput
		wantErr bool
	}{
		{name: "content only", in: CreatePostInput{UserID: u.ID, Content: "Portra 400 at dusk"}},
		{name: "image only", in: CreatePostInput{UserID: u.ID, ImageURL: "https://img.example.com/1.jpg"}},
		{name: "empty", in: CreatePostInput{UserID: u.ID, Content: "   "}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := svc.CreatePost(context.Background(), tt.in)
			if tt.wantErr {
				assertAppError(t, err, models.CodeValidation, "")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.ID, post.User.ID)
		})
	}
	assert.Equal(t, 2, testutil.Reload[models.User](t, db, u.ID).PostCount)
}

func TestPostService_Ownership(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewPostService(repository.NewPostRepository(db))
	owner := testutil.CreateUser(t, db, "owner", "pw")
	other := testutil.CreateUser(t, db, "other", "pw")
	admin := testutil.CreateUser(t, db, "admin", "pw")

	post, err := svc.CreatePost(ctx, CreatePostInput{UserID: owner.ID, Content: "Tri-X"})
	require.NoError(t, err)

	_, err = svc.UpdatePost(ctx, UpdatePostInput{Actor: Actor{ID: other.ID}, PostID: post.ID, Content: strPtr("mine now")})
	assertAppError(t, err, models.CodeForbidden, "")

	_, err = svc.UpdatePost(ctx, UpdatePostInput{Actor: Actor{ID: admin.ID, Admin: true}, PostID: post.ID, Content: strPtr("admin edit")})
	assertAppError(t, err, models.CodeForbidden, "")

	updated, err := svc.UpdatePost(ctx, UpdatePostInput{Actor: Actor{ID: owner.ID}, PostID: post.ID, Camera: strPtr("Leica M6")})
	require.NoError(t, err)
	assert.Equal(t, "Tri-X", updated.Content)
	assert.Equal(t, "Leica M6", updated.Camera)

	err = svc.DeletePost(ctx, Actor{ID: other.ID}, post.ID)
	assertAppError(t, err, models.CodeForbidden, "")

	require.NoError(t, svc.DeletePost(ctx, Actor{ID: admin.ID, Admin: true}, post.ID))
	_, err = svc.GetPost(ctx, post.ID)
	assertAppError(t, err, models.CodeNotFound, "")
	assert.Equal(t, 0, testutil.Reload[models.User](t, db, owner.ID).PostCount)
}

func TestPostService_Pagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewPostService(repository.NewPostRepository(db))
	u := testutil.CreateUser(t, db, "alice", "pw")
	for i := 0; i < 3; i++ {
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: u.ID, Content: "frame"})
		require.NoError(t, err)
	}

	posts, more, err := svc.ListPosts(ctx, repository.Page{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.True(t, more)

	posts, more, err = svc.ListPosts(ctx, repository.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.False(t, more)
}

func TestPostService_MonthlyAndSurrounding(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewPostService(repository.NewPostRepository(db))
	u := testutil.CreateUser(t, db, "alice", "pw")

	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	mk := func(created time.Time, votes int) *models.Post {
		p, err := svc.CreatePost(ctx, CreatePostInput{UserID: u.ID, Content: "frame"})
		require.NoError(t, err)
		require.NoError(t, db.Model(&models.Post{}).Where("id = ?", p.ID).
			UpdateColumns(map[string]interface{}{"created_at": created, "vote_count": votes}).Error)
		return p
	}

	lastMonth := mk(time.Date(2026, 4, 28, 0, 0, 0, 0, time.UTC), 9)
	p1 := mk(time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), 1)
	p2 := mk(time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC), 5)
	unvoted := mk(time.Date(2026, 5, 7, 0, 0, 0, 0, time.UTC), 0)
	p3 := mk(time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), 3)
	p4 := mk(time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC), 2)
	p5 := mk(time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC), 4)
	p6 := mk(time.Date(2026, 5, 18, 0, 0, 0, 0, time.UTC), 1)

	top, more, err := svc.TopMonthly(ctx, repository.Page{Limit: 3})
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, []uint{p2.ID, p5.ID, p3.ID}, postIDs(top))

	around, err := svc.Surrounding(ctx, p3.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{p2.ID, p1.ID}, postIDs(around.Previous))
	assert.Equal(t, []uint{p4.ID, p5.ID}, postIDs(around.Next))

	edge, err := svc.Surrounding(ctx, p6.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{p5.ID, p4.ID}, postIDs(edge.Previous))
	assert.Empty(t, edge.Next)

	for _, p := range append(top, around.Previous...) {
		assert.NotEqual(t, lastMonth.ID, p.ID)
		assert.NotEqual(t, unvoted.ID, p.ID)
	}
}

func TestPostService_Feed(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewPostService(repository.NewPostRepository(db))
	follows := repository.NewFollowRepository(db)
	alice := testutil.CreateUser(t, db, "alice", "pw")
	bob := testutil.CreateUser(t, db, "bob", "pw")
	carol := testutil.CreateUser(t, db, "carol", "pw")

	_, err := follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	for _, u := range []*models.User{alice, bob, carol} {
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: u.ID, Content: u.Username})
		require.NoError(t, err)
	}

	feed, _, err := svc.Feed(ctx, alice.ID, repository.Page{Limit: 10})
	require.NoError(t, err)
	authors := map[uint]bool{}
	for _, p := range feed {
		authors[p.UserID] = true
	}
	assert.Equal(t, map[uint]bool{alice.ID: true, bob.ID: true}, authors)
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
