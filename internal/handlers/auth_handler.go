package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return errorJSON(c, fiber.StatusConflict, err.Error())
		}
		slog.ErrorContext(c.UserContext(), "registration failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return errorJSON(c, fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, services.ErrUserBanned):
			return errorJSON(c, fiber.StatusForbidden, err.Error())
		}
		slog.ErrorContext(c.UserContext(), "login failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidToken):
			return errorJSON(c, fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, services.ErrUserBanned):
			return errorJSON(c, fiber.StatusForbidden, err.Error())
		}
		slog.ErrorContext(c.UserContext(), "token refresh failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		slog.ErrorContext(c.UserContext(), "logout failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to logout")
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.DeleteAccountRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	if err := h.authService.DeleteAccount(c.UserContext(), userID, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return errorJSON(c, fiber.StatusUnauthorized, "Incorrect password. Please try again.")
		case errors.Is(err, services.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		}
		slog.ErrorContext(c.UserContext(), "account deletion failed", "user_id", userID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete account")
	}

	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}
