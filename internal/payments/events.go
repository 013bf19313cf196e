package payments

import "time"

// Event is one of CheckoutCompleted, SubscriptionCreated,
// SubscriptionUpdated, SubscriptionDeleted or Unhandled.
type Event interface {
	meta() Meta
}

type Meta struct {
	ID      string
	Type    string
	Created time.Time
}

func (m Meta) meta() Meta { return m }

func EventMeta(e Event) Meta { return e.meta() }

type CheckoutCompleted struct {
	Meta
	SessionID  string
	Mode       CheckoutMode
	CustomerID string
	UserID     string
}

type SubscriptionCreated struct {
	Meta
	SubscriptionID string
	CustomerID     string
	ProductID      string
	Status         string
	UserID         string
}

type SubscriptionUpdated struct {
	Meta
	SubscriptionID string
	ProductID      string
	Status         string
}

type SubscriptionDeleted struct {
	Meta
	SubscriptionID string
}

type Unhandled struct {
	Meta
}
