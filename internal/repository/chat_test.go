package repository

import (
	"context"
	"testing"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRepository_FindByParticipantsIsExact(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	chats := NewChatRepository(db)
	a := testutil.CreateUser(t, db, "a", "pw")
	b := testutil.CreateUser(t, db, "b", "pw")
	c := testutil.CreateUser(t, db, "c", "pw")

	pair, err := chats.Create(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	group, err := chats.Create(ctx, []uint{a.ID, b.ID, c.ID})
	require.NoError(t, err)

	found, err := chats.FindByParticipants(ctx, []uint{b.ID, a.ID})
	require.NoError(t, err)
	assert.Equal(t, pair.ID, found.ID)

	found, err = chats.FindByParticipants(ctx, []uint{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, group.ID, found.ID)

	_, err = chats.FindByParticipants(ctx, []uint{a.ID, c.ID})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestChatRepository_MessagesAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	chats := NewChatRepository(db)
	a := testutil.CreateUser(t, db, "a", "pw")
	b := testutil.CreateUser(t, db, "b", "pw")

	chat, err := chats.Create(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)

	last, err := chats.LastMessage(ctx, chat.ID)
	require.NoError(t, err)
	assert.Nil(t, last)

	msg := &models.Message{ChatID: chat.ID, UserID: a.ID, Content: "hi"}
	require.NoError(t, chats.CreateMessage(ctx, msg))
	assert.Equal(t, "a", msg.User.Username)

	list, err := chats.ListForUser(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Participants, 2)

	require.NoError(t, chats.Delete(ctx, chat.ID))
	_, err = chats.GetByID(ctx, chat.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	var rows int64
	db.Model(&models.Message{}).Count(&rows)
	assert.Zero(t, rows)
}

func TestChatRepository_CreateUnknownParticipant(t *testing.T) {
	db := testutil.NewTestDB(t)
	chats := NewChatRepository(db)
	a := testutil.CreateUser(t, db, "a", "pw")

	_, err := chats.Create(context.Background(), []uint{a.ID, 999})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
