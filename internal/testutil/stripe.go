package testutil

import (
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeSignature returns a Stripe-Signature header value for payload.
func StripeSignature(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	}).Header
}

// StripeEvent renders a webhook event envelope around object.
func StripeEvent(id, eventType string, created int64, object string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":%q,"object":"event","api_version":"2024-06-20","type":%q,"created":%d,"data":{"object":%s}}`,
		id, eventType, created, object,
	))
}
