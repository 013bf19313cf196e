package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/TheManishHQ/shipos-kit/internal/services"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

func (h *OrganizationHandler) GetBySlug(c *fiber.Ctx) error {
	org, err := h.orgService.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Organization not found")
		}
		slog.ErrorContext(c.UserContext(), "failed to load organization", "slug", c.Params("slug"), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(org)
}

func (h *OrganizationHandler) GetInvitation(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	invitationID, ok := paramUUID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Invitation not found")
	}

	inv, err := h.orgService.GetInvitation(c.UserContext(), userID, invitationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvitationNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Invitation not found")
		case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrUserNotFound):
			return errorJSON(c, fiber.StatusForbidden, "Forbidden")
		}
		slog.ErrorContext(c.UserContext(), "failed to load invitation", "invitation_id", invitationID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(inv)
}
