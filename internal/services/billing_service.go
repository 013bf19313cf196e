package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TheManishHQ/shipos-kit/internal/billing"
	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/payments"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
)

var (
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrForbidden        = errors.New("forbidden")
	ErrPaymentProvider  = errors.New("payment provider error")
)

// BillingService issues processor-hosted checkout and portal links. It never
// mutates local state; purchases are recorded by the Reconciler.
type BillingService struct {
	store    *repository.Store
	provider payments.Provider
	catalog  *billing.Catalog
	baseURL  string
}

func NewBillingService(store *repository.Store, provider payments.Provider, catalog *billing.Catalog, baseURL string) *BillingService {
	return &BillingService{store: store, provider: provider, catalog: catalog, baseURL: baseURL}
}

func (s *BillingService) CreateCheckoutLink(ctx context.Context, userID uuid.UUID, req *dto.CreateCheckoutLinkRequest) (string, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	mode := payments.ModePayment
	if req.Type == "subscription" {
		mode = payments.ModeSubscription
	}

	params := payments.CheckoutParams{
		Mode:            mode,
		PriceID:         req.ProductID,
		Quantity:        1,
		RedirectURL:     s.redirect(req.RedirectURL),
		UserID:          user.ID.String(),
		TrialPeriodDays: s.catalog.TrialPeriodDays(req.ProductID),
	}
	if user.PaymentsCustomerID != nil && *user.PaymentsCustomerID != "" {
		params.CustomerID = *user.PaymentsCustomerID
	} else {
		params.Email = user.Email
	}

	link, err := s.provider.CreateCheckoutLink(ctx, params)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create checkout link", "user_id", user.ID, "product_id", req.ProductID, "error", err)
		return "", ErrPaymentProvider
	}
	return link, nil
}

func (s *BillingService) CreateCustomerPortalLink(ctx context.Context, userID uuid.UUID, req *dto.CreateCustomerPortalLinkRequest) (string, error) {
	purchaseID, err := uuid.Parse(req.PurchaseID)
	if err != nil {
		return "", ErrPurchaseNotFound
	}

	purchase, err := s.store.Purchases.GetByID(ctx, purchaseID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrPurchaseNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load purchase: %w", err)
	}
	if !purchase.OwnedBy(userID) {
		return "", ErrForbidden
	}

	link, err := s.provider.CreateCustomerPortalLink(ctx, purchase.CustomerID, s.redirect(req.RedirectURL))
	if err != nil {
		slog.ErrorContext(ctx, "failed to create customer portal link", "user_id", userID, "purchase_id", purchase.ID, "error", err)
		return "", ErrPaymentProvider
	}
	return link, nil
}

// Purchases returns the caller's purchases and the plan they entitle.
func (s *BillingService) Purchases(ctx context.Context, userID uuid.UUID) (*dto.PurchasesResponse, error) {
	purchases, err := s.store.Purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return &dto.PurchasesResponse{
		Purchases:  purchases,
		ActivePlan: s.catalog.ActivePlan(purchases),
	}, nil
}

func (s *BillingService) Plans() []*billing.Plan {
	return s.catalog.All()
}

func (s *BillingService) redirect(url string) string {
	if url != "" {
		return url
	}
	return s.baseURL
}
