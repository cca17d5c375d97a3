package seed

import (
	"context"
	"testing"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSeedsConsistentCounters(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db, 42)

	require.NoError(t, s.Run(context.Background(), Options{ExtraUsers: 3, PostsPerUser: 2}))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, len(DemoAccounts)+3)

	for _, u := range users {
		var posts, followers, following int64
		db.Model(&models.Post{}).Where("user_id = ?", u.ID).Count(&posts)
		db.Model(&models.UserFollow{}).Where("followed_id = ?", u.ID).Count(&followers)
		db.Model(&models.UserFollow{}).Where("follower_id = ?", u.ID).Count(&following)
		assert.EqualValues(t, posts, u.PostCount, u.Username)
		assert.EqualValues(t, followers, u.FollowerCount, u.Username)
		assert.EqualValues(t, following, u.FollowingCount, u.Username)
	}

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		var likes, votes, comments int64
		db.Model(&models.Like{}).Where("post_id = ?", p.ID).Count(&likes)
		db.Model(&models.Vote{}).Where("post_id = ?", p.ID).Count(&votes)
		db.Model(&models.Comment{}).Where("post_id = ?", p.ID).Count(&comments)
		assert.EqualValues(t, likes, p.LikeCount)
		assert.EqualValues(t, votes, p.VoteCount)
		assert.EqualValues(t, comments, p.CommentCount)
	}

	var blogs int64
	db.Model(&models.Blog{}).Count(&blogs)
	assert.EqualValues(t, 1, blogs, "only the admin gets a blog")
}

func TestDemoAccountsCanLogIn(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db, 7)
	require.NoError(t, s.Run(context.Background(), Options{}))

	for _, a := range DemoAccounts {
		var u models.User
		require.NoError(t, db.Preload("Password").Where("email = ?", a.Email).First(&u).Error)
		assert.Equal(t, a.Role, u.Role)
		require.NotNil(t, u.Password)
		assert.True(t, auth.VerifyPassword(a.Password, u.Password.Hash), a.Username)
	}
}

func TestClearAllEmptiesTables(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db, 1)
	require.NoError(t, s.Run(context.Background(), Options{ExtraUsers: 1}))

	require.NoError(t, s.ClearAll())

	var n int64
	db.Model(&models.User{}).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.Post{}).Count(&n)
	assert.Zero(t, n)
}

func TestSameSeedSameData(t *testing.T) {
	type snapshot struct {
		Usernames []string
		Posts     []string
		Likes     int64
		Votes     int64
	}
	run := func(t *testing.T, seed int64) snapshot {
		db := testutil.NewTestDB(t)
		require.NoError(t, NewSeeder(db, seed).Run(context.Background(), Options{ExtraUsers: 4, PostsPerUser: 2}))

		var snap snapshot
		require.NoError(t, db.Model(&models.User{}).Order("id").Pluck("username", &snap.Usernames).Error)
		var posts []models.Post
		require.NoError(t, db.Order("id").Find(&posts).Error)
		for _, p := range posts {
			snap.Posts = append(snap.Posts, p.Content+"|"+p.Camera+"|"+p.Lens+"|"+p.FilmStock+"|"+p.Settings)
		}
		db.Model(&models.Like{}).Count(&snap.Likes)
		db.Model(&models.Vote{}).Count(&snap.Votes)
		return snap
	}

	var first, second, other snapshot
	t.Run("first", func(t *testing.T) { first = run(t, 99) })
	t.Run("second", func(t *testing.T) { second = run(t, 99) })
	t.Run("other", func(t *testing.T) { other = run(t, 100) })

	require.NotEmpty(t, first.Posts)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first.Posts, other.Posts)
}
