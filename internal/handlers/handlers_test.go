package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/TheManishHQ/shipos-kit/internal/ai"
	"github.com/TheManishHQ/shipos-kit/internal/payments"
)

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
}

// asUser stands in for the JWT middleware.
func asUser(id uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"sub": id.String()}})
		return c.Next()
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decode(t *testing.T, raw []byte, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, out))
}

type fakeProvider struct {
	checkoutLink string
	portalLink   string
	err          error
	params       []payments.CheckoutParams
}

func (f *fakeProvider) CreateCheckoutLink(_ context.Context, params payments.CheckoutParams) (string, error) {
	f.params = append(f.params, params)
	return f.checkoutLink, f.err
}

func (f *fakeProvider) CreateCustomerPortalLink(_ context.Context, _, _ string) (string, error) {
	return f.portalLink, f.err
}

func (f *fakeProvider) ConstructEvent([]byte, string) (payments.Event, error) {
	return nil, errors.New("not used")
}

func (f *fakeProvider) CheckoutProductID(context.Context, string) (string, error) {
	return "", nil
}

type fakeModel struct {
	reply string
	err   error
}

func (f *fakeModel) Complete(context.Context, []ai.Message, ai.CompletionOptions) (string, error) {
	return f.reply, f.err
}

func (f *fakeModel) GenerateImages(context.Context, ai.ImageRequest) ([]ai.Image, error) {
	return []ai.Image{{URL: "https://img.example.com/1.png"}}, f.err
}

func (f *fakeModel) Transcribe(_ context.Context, req ai.TranscriptionRequest) (*ai.Transcription, error) {
	if f.err != nil {
		return nil, f.err
	}
	raw, _ := io.ReadAll(req.Audio)
	return &ai.Transcription{Text: string(raw), Language: req.Language}, nil
}
