package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/services"
	"github.com/TheManishHQ/shipos-kit/internal/storage"
)

type UsersHandler struct {
	userService *services.UserService
}

func NewUsersHandler(userService *services.UserService) *UsersHandler {
	return &UsersHandler{userService: userService}
}

func (h *UsersHandler) Me(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.userService.Me(c.UserContext(), userID)
	if err != nil {
		return usersError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.UpdateProfileRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), userID, &req)
	if err != nil {
		return usersError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UsersHandler) AvatarUploadURL(c *fiber.Ctx) error {
	var req dto.SignedURLRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	url, err := h.userService.UploadURL(c.UserContext(), &req)
	if err != nil {
		return usersError(c, err)
	}
	return c.JSON(dto.SignedUploadURLResponse{SignedUploadURL: url})
}

func (h *UsersHandler) AvatarDownloadURL(c *fiber.Ctx) error {
	var req dto.SignedURLRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	url, err := h.userService.DownloadURL(c.UserContext(), &req)
	if err != nil {
		return usersError(c, err)
	}
	return c.JSON(dto.SignedDownloadURLResponse{SignedDownloadURL: url})
}

func usersError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, storage.ErrBucketNotAllowed):
		return errorJSON(c, fiber.StatusForbidden, "Bucket not allowed")
	case errors.Is(err, storage.ErrEmptyPath):
		return errorJSON(c, fiber.StatusBadRequest, "field path is a required field")
	case errors.Is(err, services.ErrStorageUnavailable):
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create signed URL")
	}
	slog.ErrorContext(c.UserContext(), "users request failed", "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}
