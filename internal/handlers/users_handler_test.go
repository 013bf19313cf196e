package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/mail"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
	"github.com/TheManishHQ/shipos-kit/internal/services"
	"github.com/TheManishHQ/shipos-kit/internal/storage"
	"github.com/TheManishHQ/shipos-kit/internal/testutil"
)

func TestUsersHandler(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "me@example.com")
	signer := storage.NewSigner(storage.Config{
		Endpoint:        "https://storage.example.com",
		Region:          "auto",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Buckets:         []string{"avatars"},
	})
	h := NewUsersHandler(services.NewUserService(repository.New(db), signer))

	app := newApp()
	app.Use(asUser(user.ID))
	app.Get("/me", h.Me)
	app.Patch("/me", h.UpdateMe)
	app.Post("/upload", h.AvatarUploadURL)
	app.Post("/download", h.AvatarDownloadURL)

	resp, body := doJSON(t, app, "PATCH", "/me", map[string]string{"name": "Renamed", "locale": "de"})
	require.Equal(t, 200, resp.StatusCode)
	var me dto.UserResponse
	decode(t, body, &me)
	assert.Equal(t, "Renamed", me.Name)
	assert.Equal(t, "de", *me.Locale)

	resp, _ = doJSON(t, app, "PATCH", "/me", map[string]string{"locale": "fr"})
	assert.Equal(t, 400, resp.StatusCode)

	resp, body = doJSON(t, app, "POST", "/upload", map[string]string{"path": "u/avatar.png"})
	require.Equal(t, 200, resp.StatusCode)
	var up dto.SignedUploadURLResponse
	decode(t, body, &up)
	assert.Contains(t, up.SignedUploadURL, "/avatars/u/avatar.png")
	assert.Contains(t, up.SignedUploadURL, "X-Amz-Expires=60")

	resp, body = doJSON(t, app, "POST", "/download", map[string]string{"path": "u/avatar.png", "bucket": "avatars"})
	require.Equal(t, 200, resp.StatusCode)
	var down dto.SignedDownloadURLResponse
	decode(t, body, &down)
	assert.Contains(t, down.SignedDownloadURL, "X-Amz-Expires=3600")

	resp, _ = doJSON(t, app, "POST", "/download", map[string]string{"path": "u/avatar.png", "bucket": "private"})
	assert.Equal(t, 403, resp.StatusCode)

	resp, body = doJSON(t, app, "POST", "/upload", map[string]string{})
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, string(body), "field path is a required field")
}

type recordingSender struct {
	err  error
	sent []mail.Message
}

func (r *recordingSender) Send(_ context.Context, msg mail.Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestMarketingHandler(t *testing.T) {
	sender := &recordingSender{}
	h := NewMarketingHandler(services.NewMarketingService(mail.NewMailer(sender, "en"), "team@example.com"))

	app := newApp()
	app.Post("/newsletter", h.Subscribe)
	app.Post("/contact", h.Contact)

	resp, _ := doJSON(t, app, "POST", "/newsletter", map[string]string{"email": "fan@example.com"})
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/newsletter", map[string]string{"email": "not-an-email"})
	assert.Equal(t, 400, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/contact", map[string]string{"name": "Ann", "email": "ann@example.com", "message": "Hello team"})
	assert.Equal(t, 200, resp.StatusCode)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "fan@example.com", sender.sent[0].To)
	assert.Equal(t, "team@example.com", sender.sent[1].To)
	assert.Equal(t, "New Contact Form Submission", sender.sent[1].Subject)

	sender.err = errors.New("provider down")
	resp, _ = doJSON(t, app, "POST", "/newsletter", map[string]string{"email": "fan@example.com"})
	assert.Equal(t, 200, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/contact", map[string]string{"name": "Ann", "email": "ann@example.com", "message": "Hello team"})
	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, string(body), "Failed to send email")
}
