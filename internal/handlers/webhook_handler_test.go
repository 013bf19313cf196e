package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheManishHQ/shipos-kit/internal/models"
	"github.com/TheManishHQ/shipos-kit/internal/payments"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
	"github.com/TheManishHQ/shipos-kit/internal/services"
	"github.com/TheManishHQ/shipos-kit/internal/testutil"
)

const webhookSecret = "whsec_test"

func newWebhookApp(t *testing.T) (*repository.Store, func(payload []byte, signature string) (int, string)) {
	t.Helper()
	store := repository.New(testutil.NewDB(t))
	provider := payments.NewStripeProvider("sk_test", webhookSecret, "")
	h := NewWebhookHandler(provider, services.NewReconciler(store, provider, nil, nil))

	app := newApp()
	app.Post("/api/webhooks/payments", h.HandlePayments)

	return store, func(payload []byte, signature string) (int, string) {
		req := httptest.NewRequest("POST", "/api/webhooks/payments", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		if signature != "" {
			req.Header.Set("Stripe-Signature", signature)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}
}

const subscriptionObject = `{"id":"sub_1","object":"subscription","customer":"cus_1","status":"active",
	"items":{"object":"list","data":[{"id":"si_1","object":"subscription_item","price":{"id":"price_pro_monthly","object":"price"}}]}}`

func TestWebhookHandler_SubscriptionCreated(t *testing.T) {
	store, post := newWebhookApp(t)
	payload := testutil.StripeEvent("evt_1", "customer.subscription.created", 1700000000, subscriptionObject)

	status, _ := post(payload, testutil.StripeSignature(payload, webhookSecret))
	assert.Equal(t, 204, status)

	status, _ = post(payload, testutil.StripeSignature(payload, webhookSecret))
	assert.Equal(t, 204, status)

	purchase, err := store.Purchases.GetBySubscriptionID(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "price_pro_monthly", purchase.ProductID)
	assert.Equal(t, "active", *purchase.Status)
}

func TestWebhookHandler_Rejections(t *testing.T) {
	store, post := newWebhookApp(t)
	payload := testutil.StripeEvent("evt_1", "customer.subscription.created", 1700000000, subscriptionObject)

	status, body := post(nil, "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid request.", body)

	status, body = post(payload, testutil.StripeSignature(payload, "whsec_wrong"))
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid request.", body)

	status, _ = post(payload, "")
	assert.Equal(t, 400, status)

	_, err := store.Purchases.GetBySubscriptionID(context.Background(), "sub_1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWebhookHandler_MissingProduct(t *testing.T) {
	_, post := newWebhookApp(t)
	object := `{"id":"sub_2","object":"subscription","customer":"cus_1","status":"active","items":{"object":"list","data":[]}}`
	payload := testutil.StripeEvent("evt_2", "customer.subscription.created", 1700000000, object)

	status, body := post(payload, testutil.StripeSignature(payload, webhookSecret))
	assert.Equal(t, 400, status)
	assert.Equal(t, "Missing product ID.", body)
}

func TestWebhookHandler_UnhandledType(t *testing.T) {
	_, post := newWebhookApp(t)
	payload := testutil.StripeEvent("evt_3", "invoice.paid", 1700000000, `{"id":"in_1","object":"invoice"}`)

	status, body := post(payload, testutil.StripeSignature(payload, webhookSecret))
	assert.Equal(t, 200, status)
	assert.Equal(t, "Unhandled event type.", body)
}

func TestWebhookHandler_UnknownSubscriptionUpdate(t *testing.T) {
	_, post := newWebhookApp(t)
	payload := testutil.StripeEvent("evt_4", "customer.subscription.updated", 1700000000, subscriptionObject)

	status, _ := post(payload, testutil.StripeSignature(payload, webhookSecret))
	assert.Equal(t, 204, status)
}

const existingSubscriptionObject = `{"id":"sub_123","object":"subscription","customer":"cus_1","status":"canceled",
	"items":{"object":"list","data":[{"id":"si_1","object":"subscription_item","price":{"id":"price_pro_yearly","object":"price"}}]}}`

func seedSubscription(t *testing.T, store *repository.Store) {
	t.Helper()
	at := time.Unix(1700000000, 0).UTC()
	subscriptionID := "sub_123"
	status := "active"
	_, err := store.Purchases.CreateSubscriptionIfAbsent(context.Background(), &models.Purchase{
		CustomerID:     "cus_1",
		SubscriptionID: &subscriptionID,
		ProductID:      "price_pro_monthly",
		Type:           models.PurchaseSubscription,
		Status:         &status,
		LastEventAt:    &at,
	})
	require.NoError(t, err)
}

func TestWebhookHandler_SubscriptionDeleted(t *testing.T) {
	store, post := newWebhookApp(t)
	seedSubscription(t, store)

	payload := testutil.StripeEvent("evt_2", "customer.subscription.deleted", 1700000100, existingSubscriptionObject)
	status, _ := post(payload, testutil.StripeSignature(payload, webhookSecret))
	assert.Equal(t, 204, status)

	_, err := store.Purchases.GetBySubscriptionID(context.Background(), "sub_123")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWebhookHandler_BadSignatureLeavesPurchaseUntouched(t *testing.T) {
	store, post := newWebhookApp(t)
	seedSubscription(t, store)

	for _, eventType := range []string{"customer.subscription.updated", "customer.subscription.deleted"} {
		payload := testutil.StripeEvent("evt_"+eventType, eventType, 1700000100, existingSubscriptionObject)

		status, body := post(payload, testutil.StripeSignature(payload, "whsec_wrong"))
		assert.Equal(t, 400, status, eventType)
		assert.Equal(t, "Invalid request.", body, eventType)

		status, _ = post(payload, "")
		assert.Equal(t, 400, status, eventType)
	}

	purchase, err := store.Purchases.GetBySubscriptionID(context.Background(), "sub_123")
	require.NoError(t, err)
	assert.Equal(t, "active", *purchase.Status)
	assert.Equal(t, "price_pro_monthly", purchase.ProductID)
}
