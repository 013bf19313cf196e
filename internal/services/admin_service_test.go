package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/models"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
	"github.com/TheManishHQ/shipos-kit/internal/testutil"
)

func TestAdminService_BanAndUnban(t *testing.T) {
	store := repository.New(testutil.NewDB(t))
	svc := NewAdminService(store)
	ctx := context.Background()
	user := testutil.CreateUser(t, store.DB(), "target@example.com")
	expires := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)

	require.NoError(t, svc.Ban(ctx, user.ID, &dto.BanUserRequest{Reason: "spam", ExpiresAt: &expires}))

	banned, err := store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, banned.Banned)
	assert.Equal(t, "spam", *banned.BanReason)
	require.NotNil(t, banned.BanExpires)
	assert.True(t, banned.BanExpires.Equal(expires))

	require.NoError(t, svc.Unban(ctx, user.ID))

	cleared, err := store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, cleared.Banned)
	assert.Nil(t, cleared.BanReason)
	assert.Nil(t, cleared.BanExpires)
}

func TestAdminService_SetRole(t *testing.T) {
	store := repository.New(testutil.NewDB(t))
	svc := NewAdminService(store)
	ctx := context.Background()
	user := testutil.CreateUser(t, store.DB(), "target@example.com")

	require.NoError(t, svc.SetRole(ctx, user.ID, models.RoleAdmin))
	reloaded, err := store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsAdmin())

	assert.ErrorIs(t, svc.SetRole(ctx, uuid.New(), models.RoleAdmin), ErrUserNotFound)
}

func TestAdminService_DeleteUser(t *testing.T) {
	store := repository.New(testutil.NewDB(t))
	svc := NewAdminService(store)
	ctx := context.Background()
	admin := testutil.CreateUser(t, store.DB(), "admin@example.com")
	user := testutil.CreateUser(t, store.DB(), "target@example.com")

	assert.ErrorIs(t, svc.DeleteUser(ctx, admin.ID, admin.ID), ErrCannotDeleteSelf)
	assert.ErrorIs(t, svc.DeleteUser(ctx, admin.ID, uuid.New()), ErrUserNotFound)

	require.NoError(t, svc.DeleteUser(ctx, admin.ID, user.ID))
	_, err := store.Users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAdminService_ListUsers(t *testing.T) {
	store := repository.New(testutil.NewDB(t))
	svc := NewAdminService(store)
	ctx := context.Background()
	testutil.CreateUser(t, store.DB(), "alice@example.com")
	testutil.CreateUser(t, store.DB(), "bob@example.com")

	resp, err := svc.ListUsers(ctx, &dto.ListUsersQuery{Limit: 10, Query: "ALI"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "alice@example.com", resp.Users[0].Email)
}
