package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/services"
)

type PaymentsHandler struct {
	billingService *services.BillingService
}

func NewPaymentsHandler(billingService *services.BillingService) *PaymentsHandler {
	return &PaymentsHandler{billingService: billingService}
}

func (h *PaymentsHandler) CreateCheckoutLink(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateCheckoutLinkRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	link, err := h.billingService.CreateCheckoutLink(c.UserContext(), userID, &req)
	if err != nil {
		return paymentsError(c, err)
	}
	return c.JSON(dto.CheckoutLinkResponse{CheckoutLink: link})
}

func (h *PaymentsHandler) CreateCustomerPortalLink(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateCustomerPortalLinkRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	link, err := h.billingService.CreateCustomerPortalLink(c.UserContext(), userID, &req)
	if err != nil {
		return paymentsError(c, err)
	}
	return c.JSON(dto.CustomerPortalLinkResponse{CustomerPortalLink: link})
}

func (h *PaymentsHandler) ListPurchases(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	resp, err := h.billingService.Purchases(c.UserContext(), userID)
	if err != nil {
		return paymentsError(c, err)
	}
	return c.JSON(resp)
}

func (h *PaymentsHandler) ListPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": h.billingService.Plans()})
}

func paymentsError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPurchaseNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Purchase not found")
	case errors.Is(err, services.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrPaymentProvider):
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create link")
	}
	slog.ErrorContext(c.UserContext(), "payments request failed", "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}
