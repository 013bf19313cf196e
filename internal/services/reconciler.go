package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TheManishHQ/shipos-kit/internal/cache"
	"github.com/TheManishHQ/shipos-kit/internal/models"
	"github.com/TheManishHQ/shipos-kit/internal/payments"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
)

type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeUnhandled Outcome = "unhandled"
	OutcomeFailed    Outcome = "failed"
)

// ProductResolver looks up the purchased price of a completed checkout.
type ProductResolver interface {
	CheckoutProductID(ctx context.Context, sessionID string) (string, error)
}

type WebhookObserver interface {
	ObserveWebhook(eventType, outcome string)
}

// Reconciler applies verified payment processor events to the purchase
// store. Every supported event is applied in a single transaction and may be
// delivered any number of times.
type Reconciler struct {
	store    *repository.Store
	products ProductResolver
	guard    cache.EventGuard
	observer WebhookObserver
}

func NewReconciler(store *repository.Store, products ProductResolver, guard cache.EventGuard, observer WebhookObserver) *Reconciler {
	if guard == nil {
		guard = cache.NoopEventGuard{}
	}
	return &Reconciler{store: store, products: products, guard: guard, observer: observer}
}

func (r *Reconciler) Handle(ctx context.Context, event payments.Event) (Outcome, error) {
	meta := payments.EventMeta(event)

	if _, ok := event.(payments.Unhandled); ok {
		r.observe(meta.Type, OutcomeUnhandled)
		return OutcomeUnhandled, nil
	}

	claimed, err := r.guard.Claim(ctx, meta.ID)
	if err != nil {
		// Fall back to the store-level idempotency rules.
		slog.WarnContext(ctx, "webhook dedupe unavailable", "event_id", meta.ID, "error", err)
		claimed = true
	}
	if !claimed {
		r.observe(meta.Type, OutcomeDuplicate)
		return OutcomeDuplicate, nil
	}

	if err := r.apply(ctx, event); err != nil {
		if relErr := r.guard.Release(ctx, meta.ID); relErr != nil {
			slog.WarnContext(ctx, "failed to release webhook claim", "event_id", meta.ID, "error", relErr)
		}
		r.observe(meta.Type, OutcomeFailed)
		return OutcomeFailed, err
	}

	if err := r.guard.Confirm(ctx, meta.ID); err != nil {
		slog.WarnContext(ctx, "failed to confirm webhook claim", "event_id", meta.ID, "error", err)
	}

	r.observe(meta.Type, OutcomeProcessed)
	return OutcomeProcessed, nil
}

func (r *Reconciler) apply(ctx context.Context, event payments.Event) error {
	switch e := event.(type) {
	case payments.CheckoutCompleted:
		return r.checkoutCompleted(ctx, e)
	case payments.SubscriptionCreated:
		return r.subscriptionCreated(ctx, e)
	case payments.SubscriptionUpdated:
		return r.subscriptionUpdated(ctx, e)
	case payments.SubscriptionDeleted:
		return r.subscriptionDeleted(ctx, e)
	default:
		return nil
	}
}

func (r *Reconciler) checkoutCompleted(ctx context.Context, e payments.CheckoutCompleted) error {
	// Subscription checkouts are recorded from customer.subscription.created.
	if e.Mode == payments.ModeSubscription {
		return nil
	}

	productID, err := r.products.CheckoutProductID(ctx, e.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load checkout line items: %w", err)
	}
	if productID == "" {
		return payments.ErrMissingProductID
	}

	return r.store.Transaction(ctx, func(tx *repository.Store) error {
		userID, err := resolveUser(ctx, tx, e.UserID, e.CustomerID)
		if err != nil {
			return err
		}

		sessionID := e.SessionID
		purchase := models.Purchase{
			UserID:            userID,
			CustomerID:        e.CustomerID,
			CheckoutSessionID: &sessionID,
			ProductID:         productID,
			Type:              models.PurchaseOneTime,
		}
		inserted, err := tx.Purchases.CreateOneTimeIfAbsent(ctx, &purchase)
		if err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}
		if !inserted {
			slog.InfoContext(ctx, "checkout already recorded", "session_id", sessionID)
		}

		return linkCustomer(ctx, tx, userID, e.CustomerID)
	})
}

func (r *Reconciler) subscriptionCreated(ctx context.Context, e payments.SubscriptionCreated) error {
	if e.ProductID == "" {
		return payments.ErrMissingProductID
	}

	return r.store.Transaction(ctx, func(tx *repository.Store) error {
		userID, err := resolveUser(ctx, tx, e.UserID, e.CustomerID)
		if err != nil {
			return err
		}

		subscriptionID := e.SubscriptionID
		status := e.Status
		eventAt := e.Created
		purchase := models.Purchase{
			UserID:         userID,
			CustomerID:     e.CustomerID,
			SubscriptionID: &subscriptionID,
			ProductID:      e.ProductID,
			Type:           models.PurchaseSubscription,
			Status:         &status,
			LastEventAt:    &eventAt,
		}
		inserted, err := tx.Purchases.CreateSubscriptionIfAbsent(ctx, &purchase)
		if err != nil {
			return fmt.Errorf("failed to create subscription purchase: %w", err)
		}
		if !inserted {
			slog.InfoContext(ctx, "subscription already recorded", "subscription_id", subscriptionID)
		}

		return linkCustomer(ctx, tx, userID, e.CustomerID)
	})
}

func (r *Reconciler) subscriptionUpdated(ctx context.Context, e payments.SubscriptionUpdated) error {
	return r.store.Transaction(ctx, func(tx *repository.Store) error {
		changed, err := tx.Purchases.ApplySubscriptionUpdate(ctx, e.SubscriptionID, e.Status, e.ProductID, e.Created)
		if err != nil {
			return fmt.Errorf("failed to update subscription purchase: %w", err)
		}
		if !changed {
			slog.InfoContext(ctx, "subscription update skipped", "subscription_id", e.SubscriptionID, "event_id", e.ID)
		}
		return nil
	})
}

func (r *Reconciler) subscriptionDeleted(ctx context.Context, e payments.SubscriptionDeleted) error {
	return r.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Purchases.DeleteBySubscriptionID(ctx, e.SubscriptionID); err != nil {
			return fmt.Errorf("failed to delete subscription purchase: %w", err)
		}
		return nil
	})
}

func (r *Reconciler) observe(eventType string, outcome Outcome) {
	if r.observer != nil {
		r.observer.ObserveWebhook(eventType, string(outcome))
	}
}

// resolveUser prefers the user id carried in the checkout metadata and falls
// back to the user already linked to customerID.
func resolveUser(ctx context.Context, tx *repository.Store, metadataUserID, customerID string) (*uuid.UUID, error) {
	if id, err := uuid.Parse(metadataUserID); err == nil {
		user, err := tx.Users.GetByID(ctx, id)
		switch {
		case err == nil:
			return &user.ID, nil
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		slog.WarnContext(ctx, "checkout references unknown user", "user_id", metadataUserID)
	}

	if customerID == "" {
		return nil, nil
	}
	user, err := tx.Users.GetByCustomerID(ctx, customerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user by customer: %w", err)
	}
	return &user.ID, nil
}

// linkCustomer stores customerID on the user and attaches earlier purchases
// of that customer that had no user yet.
func linkCustomer(ctx context.Context, tx *repository.Store, userID *uuid.UUID, customerID string) error {
	if userID == nil || customerID == "" {
		return nil
	}
	if err := tx.Users.SetCustomerID(ctx, *userID, customerID); err != nil {
		return fmt.Errorf("failed to set customer id: %w", err)
	}
	if _, err := tx.Purchases.AttachUserByCustomer(ctx, customerID, *userID); err != nil {
		return fmt.Errorf("failed to attach purchases: %w", err)
	}
	return nil
}
