package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

type StripeProvider struct {
	sc            *client.API
	webhookSecret string
}

// NewStripeProvider builds a provider for secretKey. apiURL overrides the
// Stripe API host and is empty in production.
func NewStripeProvider(secretKey, webhookSecret, apiURL string) *StripeProvider {
	var backends *stripe.Backends
	if apiURL != "" {
		b := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(apiURL),
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     slogLeveledLogger{},
		})
		backends = &stripe.Backends{API: b, Connect: b, Uploads: b}
	}
	return &StripeProvider{
		sc:            client.New(secretKey, backends),
		webhookSecret: webhookSecret,
	}
}

func (p *StripeProvider) CreateCheckoutLink(ctx context.Context, in CheckoutParams) (string, error) {
	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(in.Mode)),
		SuccessURL: stripe.String(in.RedirectURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(in.PriceID),
			Quantity: stripe.Int64(quantity),
		}},
	}
	params.Context = ctx
	params.AddMetadata("user_id", in.UserID)

	if in.CustomerID != "" {
		params.Customer = stripe.String(in.CustomerID)
	} else if in.Email != "" {
		params.CustomerEmail = stripe.String(in.Email)
	}

	metadata := map[string]string{"user_id": in.UserID}
	if in.Mode == ModeSubscription {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{Metadata: metadata}
		if in.TrialPeriodDays > 0 {
			params.SubscriptionData.TrialPeriodDays = stripe.Int64(in.TrialPeriodDays)
		}
	} else {
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{Metadata: metadata}
		if in.CustomerID == "" {
			params.CustomerCreation = stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways))
		}
	}

	sess, err := p.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (p *StripeProvider) CreateCustomerPortalLink(ctx context.Context, customerID, redirectURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(redirectURL),
	}
	params.Context = ctx

	sess, err := p.sc.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create billing portal session: %w", err)
	}
	return sess.URL, nil
}

func (p *StripeProvider) CheckoutProductID(ctx context.Context, sessionID string) (string, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")

	sess, err := p.sc.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve checkout session: %w", err)
	}
	if sess.LineItems == nil || len(sess.LineItems.Data) == 0 || sess.LineItems.Data[0].Price == nil {
		return "", nil
	}
	return sess.LineItems.Data[0].Price.ID, nil
}

func (p *StripeProvider) ConstructEvent(payload []byte, signature string) (Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return decodeStripeEvent(evt)
}

func decodeStripeEvent(evt stripe.Event) (Event, error) {
	meta := Meta{
		ID:      evt.ID,
		Type:    string(evt.Type),
		Created: time.Unix(evt.Created, 0).UTC(),
	}
	if evt.Data == nil {
		return Unhandled{Meta: meta}, nil
	}

	switch meta.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		return CheckoutCompleted{
			Meta:       meta,
			SessionID:  sess.ID,
			Mode:       CheckoutMode(sess.Mode),
			CustomerID: customerID(sess.Customer),
			UserID:     sess.Metadata["user_id"],
		}, nil

	case "customer.subscription.created":
		sub, err := decodeSubscription(evt.Data.Raw)
		if err != nil {
			return nil, err
		}
		return SubscriptionCreated{
			Meta:           meta,
			SubscriptionID: sub.ID,
			CustomerID:     customerID(sub.Customer),
			ProductID:      subscriptionPriceID(sub),
			Status:         string(sub.Status),
			UserID:         sub.Metadata["user_id"],
		}, nil

	case "customer.subscription.updated":
		sub, err := decodeSubscription(evt.Data.Raw)
		if err != nil {
			return nil, err
		}
		return SubscriptionUpdated{
			Meta:           meta,
			SubscriptionID: sub.ID,
			ProductID:      subscriptionPriceID(sub),
			Status:         string(sub.Status),
		}, nil

	case "customer.subscription.deleted":
		sub, err := decodeSubscription(evt.Data.Raw)
		if err != nil {
			return nil, err
		}
		return SubscriptionDeleted{Meta: meta, SubscriptionID: sub.ID}, nil
	}

	return Unhandled{Meta: meta}, nil
}

func decodeSubscription(raw json.RawMessage) (*stripe.Subscription, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("failed to decode subscription: %w", err)
	}
	return &sub, nil
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func subscriptionPriceID(sub *stripe.Subscription) string {
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ""
	}
	return sub.Items.Data[0].Price.ID
}

// slogLeveledLogger routes stripe-go client logs through slog.
type slogLeveledLogger struct{}

func (slogLeveledLogger) Debugf(format string, v ...interface{}) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (slogLeveledLogger) Infof(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), "component", "stripe")
}

func (slogLeveledLogger) Warnf(format string, v ...interface{}) {
	slog.Warn(fmt.Sprintf(format, v...), "component", "stripe")
}

func (slogLeveledLogger) Errorf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...), "component", "stripe")
}
