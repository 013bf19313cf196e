package dto

import (
	"github.com/TheManishHQ/shipos-kit/internal/billing"
	"github.com/TheManishHQ/shipos-kit/internal/models"
)

type CreateCheckoutLinkRequest struct {
	Type        string `json:"type" validate:"required,oneof=one-time subscription"`
	ProductID   string `json:"productId" validate:"required,max=255"`
	RedirectURL string `json:"redirectUrl" validate:"omitempty,url"`
}

type CheckoutLinkResponse struct {
	CheckoutLink string `json:"checkoutLink"`
}

type CreateCustomerPortalLinkRequest struct {
	PurchaseID  string `json:"purchaseId" validate:"required,uuid"`
	RedirectURL string `json:"redirectUrl" validate:"omitempty,url"`
}

type CustomerPortalLinkResponse struct {
	CustomerPortalLink string `json:"customerPortalLink"`
}

type PurchasesResponse struct {
	Purchases  []models.Purchase `json:"purchases"`
	ActivePlan *billing.Plan     `json:"activePlan"`
}
