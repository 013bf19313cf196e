// Package payments wraps the payment processor: checkout and portal links,
// webhook verification and decoding of processor events.
package payments

import (
	"context"
	"errors"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMissingProductID = errors.New("missing product ID")
)

type CheckoutMode string

const (
	ModePayment      CheckoutMode = "payment"
	ModeSubscription CheckoutMode = "subscription"
)

type CheckoutParams struct {
	Mode        CheckoutMode
	PriceID     string
	Quantity    int64
	RedirectURL string
	// CustomerID takes precedence over Email when both are set.
	CustomerID      string
	Email           string
	UserID          string
	TrialPeriodDays int64
}

type Provider interface {
	CreateCheckoutLink(ctx context.Context, params CheckoutParams) (string, error)
	CreateCustomerPortalLink(ctx context.Context, customerID, redirectURL string) (string, error)
	// ConstructEvent verifies the signature of payload and decodes it.
	ConstructEvent(payload []byte, signature string) (Event, error)
	// CheckoutProductID returns the price of the first line item of a
	// checkout session.
	CheckoutProductID(ctx context.Context, sessionID string) (string, error)
}
