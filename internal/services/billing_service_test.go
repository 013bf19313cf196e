package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TheManishHQ/shipos-kit/internal/billing"
	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/models"
	"github.com/TheManishHQ/shipos-kit/internal/payments"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
	"github.com/TheManishHQ/shipos-kit/internal/testutil"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateCheckoutLink(ctx context.Context, params payments.CheckoutParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) CreateCustomerPortalLink(ctx context.Context, customerID, redirectURL string) (string, error) {
	args := m.Called(ctx, customerID, redirectURL)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) ConstructEvent(payload []byte, signature string) (payments.Event, error) {
	args := m.Called(payload, signature)
	event, _ := args.Get(0).(payments.Event)
	return event, args.Error(1)
}

func (m *mockProvider) CheckoutProductID(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func newBillingService(t *testing.T) (*BillingService, *repository.Store, *mockProvider) {
	t.Helper()
	store := repository.New(testutil.NewDB(t))
	provider := &mockProvider{}
	return NewBillingService(store, provider, billing.Default(), "https://app.example.com"), store, provider
}

func TestBillingService_CheckoutLinkUsesEmailAndTrial(t *testing.T) {
	svc, store, provider := newBillingService(t)
	user := testutil.CreateUser(t, store.DB(), "new@example.com")

	provider.On("CreateCheckoutLink", mock.Anything, payments.CheckoutParams{
		Mode:            payments.ModeSubscription,
		PriceID:         "price_pro_monthly",
		Quantity:        1,
		RedirectURL:     "https://app.example.com",
		Email:           "new@example.com",
		UserID:          user.ID.String(),
		TrialPeriodDays: 14,
	}).Return("https://checkout.stripe.com/c/1", nil).Once()

	link, err := svc.CreateCheckoutLink(context.Background(), user.ID, &dto.CreateCheckoutLinkRequest{
		Type:      "subscription",
		ProductID: "price_pro_monthly",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/1", link)
	provider.AssertExpectations(t)
}

func TestBillingService_CheckoutLinkStoreFailureIsNotNotFound(t *testing.T) {
	svc, store, provider := newBillingService(t)
	user := testutil.CreateUser(t, store.DB(), "new@example.com")

	sqlDB, err := store.DB().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.CreateCheckoutLink(context.Background(), user.ID, &dto.CreateCheckoutLinkRequest{
		Type:      "one-time",
		ProductID: "price_lifetime",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	provider.AssertNotCalled(t, "CreateCheckoutLink", mock.Anything, mock.Anything)
}

func TestBillingService_CheckoutLinkUnknownUser(t *testing.T) {
	svc, _, _ := newBillingService(t)

	_, err := svc.CreateCheckoutLink(context.Background(), uuid.New(), &dto.CreateCheckoutLinkRequest{
		Type:      "one-time",
		ProductID: "price_lifetime",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBillingService_CheckoutLinkPrefersCustomerID(t *testing.T) {
	svc, store, provider := newBillingService(t)
	customer := "cus_1"
	user := testutil.CreateUser(t, store.DB(), "paid@example.com", func(u *models.User) {
		u.PaymentsCustomerID = &customer
	})

	provider.On("CreateCheckoutLink", mock.Anything, mock.MatchedBy(func(p payments.CheckoutParams) bool {
		return p.CustomerID == "cus_1" && p.Email == "" && p.Mode == payments.ModePayment &&
			p.TrialPeriodDays == 0 && p.RedirectURL == "https://app.example.com/done"
	})).Return("https://checkout.stripe.com/c/2", nil).Once()

	_, err := svc.CreateCheckoutLink(context.Background(), user.ID, &dto.CreateCheckoutLinkRequest{
		Type:        "one-time",
		ProductID:   "price_lifetime",
		RedirectURL: "https://app.example.com/done",
	})
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestBillingService_CheckoutLinkProviderError(t *testing.T) {
	svc, store, provider := newBillingService(t)
	user := testutil.CreateUser(t, store.DB(), "u@example.com")

	provider.On("CreateCheckoutLink", mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()

	_, err := svc.CreateCheckoutLink(context.Background(), user.ID, &dto.CreateCheckoutLinkRequest{
		Type:      "one-time",
		ProductID: "price_lifetime",
	})
	assert.ErrorIs(t, err, ErrPaymentProvider)
}

func TestBillingService_PortalLink(t *testing.T) {
	svc, store, provider := newBillingService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, store.DB(), "owner@example.com")
	other := testutil.CreateUser(t, store.DB(), "other@example.com")

	purchase := &models.Purchase{UserID: &owner.ID, CustomerID: "cus_1", ProductID: "price_lifetime", Type: models.PurchaseOneTime}
	require.NoError(t, store.Purchases.Create(ctx, purchase))

	t.Run("not found", func(t *testing.T) {
		_, err := svc.CreateCustomerPortalLink(ctx, owner.ID, &dto.CreateCustomerPortalLinkRequest{
			PurchaseID: "00000000-0000-0000-0000-000000000001",
		})
		assert.ErrorIs(t, err, ErrPurchaseNotFound)
	})

	t.Run("not owner", func(t *testing.T) {
		_, err := svc.CreateCustomerPortalLink(ctx, other.ID, &dto.CreateCustomerPortalLinkRequest{
			PurchaseID: purchase.ID.String(),
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner", func(t *testing.T) {
		provider.On("CreateCustomerPortalLink", mock.Anything, "cus_1", "https://app.example.com").
			Return("https://billing.stripe.com/p/1", nil).Once()

		link, err := svc.CreateCustomerPortalLink(ctx, owner.ID, &dto.CreateCustomerPortalLinkRequest{
			PurchaseID: purchase.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://billing.stripe.com/p/1", link)
	})

	provider.AssertExpectations(t)
}

func TestBillingService_PurchasesActivePlan(t *testing.T) {
	svc, store, _ := newBillingService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, store.DB(), "plan@example.com")

	resp, err := svc.Purchases(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Purchases)
	require.NotNil(t, resp.ActivePlan)
	assert.Equal(t, "free", resp.ActivePlan.ID)

	status := "active"
	sub := "sub_1"
	require.NoError(t, store.Purchases.Create(ctx, &models.Purchase{
		UserID: &user.ID, CustomerID: "cus_1", SubscriptionID: &sub,
		ProductID: "price_pro_monthly", Type: models.PurchaseSubscription, Status: &status,
	}))

	resp, err = svc.Purchases(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Purchases, 1)
	assert.Equal(t, "pro", resp.ActivePlan.ID)
}
