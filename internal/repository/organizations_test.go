package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheManishHQ/shipos-kit/internal/models"
	"github.com/TheManishHQ/shipos-kit/internal/testutil"
)

func TestOrganizationRepository(t *testing.T) {
	db := testutil.NewDB(t)
	store := New(db)
	ctx := context.Background()
	inviter := testutil.CreateUser(t, db, "owner@example.com")

	org := &models.Organization{Name: "Acme", Slug: "acme"}
	require.NoError(t, db.Create(org).Error)
	inv := &models.Invitation{
		OrganizationID: org.ID,
		Email:          "new@example.com",
		ExpiresAt:      time.Now().Add(24 * time.Hour),
		InviterID:      inviter.ID,
	}
	require.NoError(t, db.Create(inv).Error)

	got, err := store.Organizations.GetBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, org.ID, got.ID)

	_, err = store.Organizations.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	gotInv, err := store.Organizations.GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", gotInv.Organization.Name)
	assert.Equal(t, "pending", gotInv.Status)

	_, err = store.Organizations.GetInvitationByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
