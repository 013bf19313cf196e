package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/TheManishHQ/shipos-kit/internal/ai"
	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/services"
)

const maxAudioBytes = 25 << 20

type AIHandler struct {
	chatService *services.ChatService
}

func NewAIHandler(chatService *services.ChatService) *AIHandler {
	return &AIHandler{chatService: chatService}
}

func (h *AIHandler) CreateChat(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateChatRequest
	if len(c.Body()) > 0 {
		if msg := bindJSON(c, &req); msg != "" {
			return errorJSON(c, fiber.StatusBadRequest, msg)
		}
	}

	chat, err := h.chatService.Create(c.UserContext(), userID, &req)
	if err != nil {
		return chatError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(chat)
}

func (h *AIHandler) ListChats(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	q := dto.ListChatsQuery{Limit: 20}
	if msg := bindQuery(c, &q); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.chatService.List(c.UserContext(), userID, &q)
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(resp)
}

func (h *AIHandler) GetChat(c *fiber.Ctx) error {
	userID, chatID, err := chatParams(c, "id")
	if err != nil {
		return err
	}

	chat, err := h.chatService.Get(c.UserContext(), userID, chatID)
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(chat)
}

func (h *AIHandler) UpdateChat(c *fiber.Ctx) error {
	userID, chatID, err := chatParams(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateChatRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	chat, err := h.chatService.UpdateTitle(c.UserContext(), userID, chatID, &req)
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(chat)
}

func (h *AIHandler) DeleteChat(c *fiber.Ctx) error {
	userID, chatID, err := chatParams(c, "id")
	if err != nil {
		return err
	}

	if err := h.chatService.Delete(c.UserContext(), userID, chatID); err != nil {
		return chatError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *AIHandler) SendMessage(c *fiber.Ctx) error {
	userID, chatID, err := chatParams(c, "chatId")
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	chat, err := h.chatService.SendMessage(c.UserContext(), userID, chatID, &req)
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(chat)
}

func (h *AIHandler) GenerateImage(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	req := dto.GenerateImageRequest{Size: "1024x1024", N: 1, Quality: "standard", Style: "vivid"}
	if msg := bindJSON(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	images, err := h.chatService.GenerateImages(c.UserContext(), userID, &req)
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(fiber.Map{"images": images})
}

func (h *AIHandler) Transcribe(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "field file is a required field")
	}
	if file.Size > maxAudioBytes {
		return errorJSON(c, fiber.StatusRequestEntityTooLarge, "Audio file exceeds 25MB")
	}

	req := dto.TranscribeRequest{ResponseFormat: "json"}
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if msg := validateStruct(&req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	audio, err := file.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Failed to read audio file")
	}
	defer audio.Close()

	out, err := h.chatService.Transcribe(c.UserContext(), userID, ai.TranscriptionRequest{
		Audio:          audio,
		Filename:       file.Filename,
		Language:       req.Language,
		Prompt:         req.Prompt,
		ResponseFormat: req.ResponseFormat,
		Temperature:    req.Temperature,
	})
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(out)
}

// chatParams resolves the caller and the chat id path parameter.
func chatParams(c *fiber.Ctx, param string) (uuid.UUID, uuid.UUID, error) {
	userID, ok := currentUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	chatID, ok := paramUUID(c, param)
	if !ok {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Chat not found")
	}
	return userID, chatID, nil
}

func chatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrChatNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Chat not found")
	case errors.Is(err, services.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrModelUnavailable):
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to generate AI response")
	}
	slog.ErrorContext(c.UserContext(), "chat request failed", "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}
