package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseType string

const (
	PurchaseOneTime      PurchaseType = "ONE_TIME"
	PurchaseSubscription PurchaseType = "SUBSCRIPTION"
)

// Purchase records a one-time payment or a subscription as reported by the
// payment processor. UserID stays nil until the customer can be linked to a
// local account.
type Purchase struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         *uuid.UUID   `gorm:"type:uuid;index" json:"userId"`
	CustomerID     string       `gorm:"size:255;not null;index" json:"customerId"`
	SubscriptionID *string      `gorm:"size:255;uniqueIndex" json:"subscriptionId"`
	ProductID      string       `gorm:"size:255;not null" json:"productId"`
	Type           PurchaseType `gorm:"size:20;not null" json:"type"`
	Status         *string      `gorm:"size:50" json:"status"`
	LastEventAt    *time.Time   `json:"-"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`

	// CheckoutSessionID is set on one-time purchases only.
	CheckoutSessionID *string `gorm:"size:255;uniqueIndex" json:"-"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Purchase) OwnedBy(userID uuid.UUID) bool {
	return p.UserID != nil && *p.UserID == userID
}
