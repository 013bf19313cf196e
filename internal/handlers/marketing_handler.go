package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/services"
	"github.com/TheManishHQ/shipos-kit/internal/session"
)

type MarketingHandler struct {
	marketingService *services.MarketingService
}

func NewMarketingHandler(marketingService *services.MarketingService) *MarketingHandler {
	return &MarketingHandler{marketingService: marketingService}
}

func (h *MarketingHandler) Subscribe(c *fiber.Ctx) error {
	var req dto.NewsletterSubscribeRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	h.marketingService.Subscribe(c.UserContext(), &req, session.GetLocale(c))
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *MarketingHandler) Contact(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	if err := h.marketingService.Contact(c.UserContext(), &req); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to send email")
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
