package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/TheManishHQ/shipos-kit/internal/models"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func (r *PurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var p models.Purchase
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PurchaseRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Purchase, error) {
	var p models.Purchase
	if err := r.db.WithContext(ctx).Where("subscription_id = ?", subscriptionID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PurchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	purchases := make([]models.Purchase, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

func (r *PurchaseRepository) Create(ctx context.Context, p *models.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// CreateOneTimeIfAbsent inserts p unless a purchase for the same checkout
// session already exists. It reports whether a row was inserted.
func (r *PurchaseRepository) CreateOneTimeIfAbsent(ctx context.Context, p *models.Purchase) (bool, error) {
	return r.createIfAbsent(ctx, p, "checkout_session_id")
}

// CreateSubscriptionIfAbsent inserts p unless a purchase with the same
// subscription id already exists. It reports whether a row was inserted.
func (r *PurchaseRepository) CreateSubscriptionIfAbsent(ctx context.Context, p *models.Purchase) (bool, error) {
	return r.createIfAbsent(ctx, p, "subscription_id")
}

func (r *PurchaseRepository) createIfAbsent(ctx context.Context, p *models.Purchase, column string) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: column}},
			DoNothing: true,
		}).
		Create(p)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ApplySubscriptionUpdate sets status, and productID when non-empty, on the
// purchase for subscriptionID. Events older than the last applied one are
// ignored. It reports whether a row changed.
func (r *PurchaseRepository) ApplySubscriptionUpdate(ctx context.Context, subscriptionID, status, productID string, eventAt time.Time) (bool, error) {
	fields := map[string]interface{}{
		"status":        status,
		"last_event_at": eventAt,
	}
	if productID != "" {
		fields["product_id"] = productID
	}

	result := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("subscription_id = ? AND (last_event_at IS NULL OR last_event_at <= ?)", subscriptionID, eventAt).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteBySubscriptionID removes the purchase for subscriptionID. A missing
// row is not an error.
func (r *PurchaseRepository) DeleteBySubscriptionID(ctx context.Context, subscriptionID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("subscription_id = ?", subscriptionID).Delete(&models.Purchase{})
	return result.RowsAffected, result.Error
}

// AttachUserByCustomer assigns userID to purchases of customerID that are
// not yet linked to a user.
func (r *PurchaseRepository) AttachUserByCustomer(ctx context.Context, customerID string, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("customer_id = ? AND user_id IS NULL", customerID).
		Update("user_id", userID)
	return result.RowsAffected, result.Error
}
