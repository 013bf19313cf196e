package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/TheManishHQ/shipos-kit/internal/models"
	"github.com/TheManishHQ/shipos-kit/internal/testutil"
)

func TestChatRepository_CreateDefaultsToEmptyTranscript(t *testing.T) {
	db := testutil.NewDB(t)
	store := New(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "c@example.com")

	chat := &models.AiChat{UserID: user.ID}
	require.NoError(t, store.Chats.Create(ctx, chat))

	got, err := store.Chats.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(got.Messages))
	assert.Nil(t, got.Title)
}

func TestChatRepository_ListByUserOrdersByActivity(t *testing.T) {
	db := testutil.NewDB(t)
	store := New(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "c@example.com")
	other := testutil.CreateUser(t, db, "o@example.com")

	older := &models.AiChat{UserID: user.ID}
	newer := &models.AiChat{UserID: user.ID}
	require.NoError(t, store.Chats.Create(ctx, older))
	require.NoError(t, store.Chats.Create(ctx, newer))
	require.NoError(t, store.Chats.Create(ctx, &models.AiChat{UserID: other.ID}))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(newer).UpdateColumn("updated_at", base).Error)
	require.NoError(t, db.Model(older).UpdateColumn("updated_at", base.Add(time.Hour)).Error)

	chats, total, err := store.Chats.ListByUser(ctx, user.ID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, chats, 2)
	assert.Equal(t, older.ID, chats[0].ID)

	chats, total, err = store.Chats.ListByUser(ctx, user.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, chats, 1)
	assert.Equal(t, newer.ID, chats[0].ID)
}

func TestChatRepository_SaveAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	store := New(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "c@example.com")

	chat := &models.AiChat{UserID: user.ID}
	require.NoError(t, store.Chats.Create(ctx, chat))

	title := "Hello"
	chat.Title = &title
	chat.Messages = datatypes.JSON(`[{"role":"user","content":"hi","createdAt":"2025-01-01T00:00:00Z"}]`)
	require.NoError(t, store.Chats.Save(ctx, chat))

	got, err := store.Chats.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Title)
	assert.Equal(t, "Hello", *got.Title)
	assert.Contains(t, string(got.Messages), `"content":"hi"`)

	require.NoError(t, store.Chats.Delete(ctx, chat.ID))
	_, err = store.Chats.GetByID(ctx, chat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Chats.Delete(ctx, uuid.New()), ErrNotFound)
}
