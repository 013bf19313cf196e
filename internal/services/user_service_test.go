package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/mail"
	"github.com/TheManishHQ/shipos-kit/internal/models"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
	"github.com/TheManishHQ/shipos-kit/internal/storage"
	"github.com/TheManishHQ/shipos-kit/internal/testutil"
)

type stubSigner struct {
	err error
}

func (s stubSigner) UploadURL(_ context.Context, bucket, path string) (string, error) {
	return "https://s3/put/" + bucket + "/" + path, s.err
}

func (s stubSigner) DownloadURL(_ context.Context, bucket, path string) (string, error) {
	return "https://s3/get/" + bucket + "/" + path, s.err
}

func TestUserService_UpdateProfile(t *testing.T) {
	store := repository.New(testutil.NewDB(t))
	svc := NewUserService(store, stubSigner{})
	ctx := context.Background()
	user := testutil.CreateUser(t, store.DB(), "me@example.com")

	name := "  New Name "
	locale := "de"
	updated, err := svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{Name: &name, Locale: &locale})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "de", *updated.Locale)

	same, err := svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "New Name", same.Name)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_SignedURLs(t *testing.T) {
	store := repository.New(testutil.NewDB(t))
	ctx := context.Background()

	url, err := NewUserService(store, stubSigner{}).UploadURL(ctx, &dto.SignedURLRequest{Path: "a.png", Bucket: "avatars"})
	require.NoError(t, err)
	assert.Equal(t, "https://s3/put/avatars/a.png", url)

	_, err = NewUserService(store, stubSigner{err: storage.ErrBucketNotAllowed}).DownloadURL(ctx, &dto.SignedURLRequest{Path: "a.png", Bucket: "secrets"})
	assert.ErrorIs(t, err, storage.ErrBucketNotAllowed)

	_, err = NewUserService(store, stubSigner{err: errors.New("no credentials")}).DownloadURL(ctx, &dto.SignedURLRequest{Path: "a.png"})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestOrganizationService_GetInvitation(t *testing.T) {
	store := repository.New(testutil.NewDB(t))
	svc := NewOrganizationService(store)
	ctx := context.Background()
	inviter := testutil.CreateUser(t, store.DB(), "owner@example.com")
	invitee := testutil.CreateUser(t, store.DB(), "guest@example.com")
	stranger := testutil.CreateUser(t, store.DB(), "stranger@example.com")

	org := &models.Organization{Name: "Acme", Slug: "acme"}
	require.NoError(t, store.DB().Create(org).Error)
	inv := &models.Invitation{
		OrganizationID: org.ID,
		Email:          "Guest@Example.com",
		Role:           "member",
		ExpiresAt:      time.Now().Add(48 * time.Hour),
		InviterID:      inviter.ID,
	}
	require.NoError(t, store.DB().Create(inv).Error)

	got, err := svc.GetInvitation(ctx, invitee.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", got.Organization.Slug)
	assert.Equal(t, "pending", got.Status)

	_, err = svc.GetInvitation(ctx, stranger.ID, inv.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetInvitation(ctx, invitee.ID, uuid.New())
	assert.ErrorIs(t, err, ErrInvitationNotFound)

	found, err := svc.GetBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, org.ID, found.ID)

	_, err = svc.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

type fakeMailer struct {
	err       error
	templates []mail.TemplateID
	plain     []string
	to        []string
}

func (f *fakeMailer) SendTemplate(_ context.Context, to string, id mail.TemplateID, _ string, _ map[string]string) error {
	f.to = append(f.to, to)
	f.templates = append(f.templates, id)
	return f.err
}

func (f *fakeMailer) SendPlain(_ context.Context, to, _, text string) error {
	f.to = append(f.to, to)
	f.plain = append(f.plain, text)
	return f.err
}

func TestMarketingService(t *testing.T) {
	ctx := context.Background()

	mailer := &fakeMailer{}
	svc := NewMarketingService(mailer, "team@example.com")
	svc.Subscribe(ctx, &dto.NewsletterSubscribeRequest{Email: "fan@example.com"}, "en")
	require.NoError(t, svc.Contact(ctx, &dto.ContactRequest{Name: "Ann", Email: "ann@example.com", Message: "Hi there"}))

	assert.Equal(t, []mail.TemplateID{mail.TemplateNewsletterSignup}, mailer.templates)
	assert.Equal(t, []string{"fan@example.com", "team@example.com"}, mailer.to)
	assert.Equal(t, []string{"Name: Ann\n\nEmail: ann@example.com\n\nMessage: Hi there"}, mailer.plain)

	failing := NewMarketingService(&fakeMailer{err: errors.New("smtp down")}, "team@example.com")
	failing.Subscribe(ctx, &dto.NewsletterSubscribeRequest{Email: "fan@example.com"}, "en")
	assert.ErrorIs(t, failing.Contact(ctx, &dto.ContactRequest{Name: "Ann", Email: "a@b.co", Message: "x"}), ErrMailFailed)
}
