package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	q := dto.ListUsersQuery{Limit: 10}
	if msg := bindQuery(c, &q); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.adminService.ListUsers(c.UserContext(), &q)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "admin list users failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to list users")
	}
	return c.JSON(resp)
}

func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	userID, ok := paramUUID(c, "userId")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	var req dto.SetRoleRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	if err := h.adminService.SetRole(c.UserContext(), userID, req.Role); err != nil {
		return h.fail(c, "set role", err)
	}
	slog.Info("user role changed", "user_id", userID, "role", req.Role)
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *AdminHandler) Ban(c *fiber.Ctx) error {
	userID, ok := paramUUID(c, "userId")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	var req dto.BanUserRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	if err := h.adminService.Ban(c.UserContext(), userID, &req); err != nil {
		return h.fail(c, "ban user", err)
	}
	slog.Info("user banned", "user_id", userID)
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *AdminHandler) Unban(c *fiber.Ctx) error {
	userID, ok := paramUUID(c, "userId")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	if err := h.adminService.Unban(c.UserContext(), userID); err != nil {
		return h.fail(c, "unban user", err)
	}
	slog.Info("user unbanned", "user_id", userID)
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	callerID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	userID, ok := paramUUID(c, "userId")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	if err := h.adminService.DeleteUser(c.UserContext(), callerID, userID); err != nil {
		if errors.Is(err, services.ErrCannotDeleteSelf) {
			return errorJSON(c, fiber.StatusBadRequest, "Cannot delete your own account")
		}
		return h.fail(c, "delete user", err)
	}
	slog.Info("user deleted by admin", "user_id", userID, "admin_id", callerID)
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *AdminHandler) fail(c *fiber.Ctx, action string, err error) error {
	if errors.Is(err, services.ErrUserNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	}
	slog.ErrorContext(c.UserContext(), "admin operation failed", "action", action, "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, "Failed to "+action)
}
