package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheManishHQ/shipos-kit/internal/repository"
	"github.com/TheManishHQ/shipos-kit/internal/testutil"
)

func fixedStore(store *repository.Store) storeOpener {
	return func() (*repository.Store, func(), error) {
		return store, func() {}, nil
	}
}

func TestSetRoleCmd(t *testing.T) {
	db := testutil.NewDB(t)
	store := repository.New(db)
	user := testutil.CreateUser(t, db, "ops@example.com")

	var out bytes.Buffer
	cmd := setRoleCmd(fixedStore(store))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"OPS@example.com", "admin"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "ops@example.com is now admin\n", out.String())

	reloaded, err := store.Users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsAdmin())

	cmd = setRoleCmd(fixedStore(store))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"ops@example.com", "root"})
	assert.ErrorContains(t, cmd.ExecuteContext(context.Background()), "invalid role")

	cmd = setRoleCmd(fixedStore(store))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"nobody@example.com", "admin"})
	assert.ErrorContains(t, cmd.ExecuteContext(context.Background()), "no user with email")
}

func TestListUsersCmd(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "alice@example.com")
	testutil.CreateUser(t, db, "bob@example.com")

	var out bytes.Buffer
	cmd := listUsersCmd(fixedStore(repository.New(db)))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--query", "bob"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "bob@example.com")
	assert.NotContains(t, out.String(), "alice@example.com")
	assert.Contains(t, out.String(), "1 of 1 users")
}
