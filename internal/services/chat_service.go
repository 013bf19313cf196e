package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/TheManishHQ/shipos-kit/internal/ai"
	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/models"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
)

const (
	systemPrompt = "You are a helpful AI assistant. Provide clear, concise, and accurate responses to user questions."

	completionMaxTokens   = 1000
	completionTemperature = 0.7

	titleMaxRunes = 50
)

var (
	ErrChatNotFound     = errors.New("chat not found")
	ErrModelUnavailable = errors.New("failed to generate AI response")
)

// Model is the subset of the AI client the chat service depends on.
type Model interface {
	Complete(ctx context.Context, messages []ai.Message, opts ai.CompletionOptions) (string, error)
	GenerateImages(ctx context.Context, req ai.ImageRequest) ([]ai.Image, error)
	Transcribe(ctx context.Context, req ai.TranscriptionRequest) (*ai.Transcription, error)
}

type CompletionObserver interface {
	ObserveCompletion(d time.Duration, err error)
}

type ChatService struct {
	store    *repository.Store
	model    Model
	observer CompletionObserver
	now      func() time.Time
}

func NewChatService(store *repository.Store, model Model, observer CompletionObserver) *ChatService {
	return &ChatService{store: store, model: model, observer: observer, now: time.Now}
}

func (s *ChatService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateChatRequest) (*dto.ChatResponse, error) {
	chat := models.AiChat{
		UserID:   userID,
		Title:    req.Title,
		Messages: datatypes.JSON("[]"),
	}
	if err := s.store.Chats.Create(ctx, &chat); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return toChatResponse(&chat)
}

func (s *ChatService) List(ctx context.Context, userID uuid.UUID, q *dto.ListChatsQuery) (*dto.ListChatsResponse, error) {
	chats, total, err := s.store.Chats.ListByUser(ctx, userID, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}

	resp := &dto.ListChatsResponse{
		Chats:  make([]dto.ChatResponse, 0, len(chats)),
		Total:  total,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	for i := range chats {
		c, err := toChatResponse(&chats[i])
		if err != nil {
			return nil, err
		}
		resp.Chats = append(resp.Chats, *c)
	}
	return resp, nil
}

func (s *ChatService) Get(ctx context.Context, userID, chatID uuid.UUID) (*dto.ChatResponse, error) {
	chat, err := s.owned(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	return toChatResponse(chat)
}

func (s *ChatService) UpdateTitle(ctx context.Context, userID, chatID uuid.UUID, req *dto.UpdateChatRequest) (*dto.ChatResponse, error) {
	chat, err := s.owned(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	// An absent title leaves the chat as it is.
	if req.Title == nil {
		return toChatResponse(chat)
	}

	chat.Title = req.Title
	if err := s.store.Chats.Save(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to update chat: %w", err)
	}
	return toChatResponse(chat)
}

func (s *ChatService) Delete(ctx context.Context, userID, chatID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, chatID); err != nil {
		return err
	}
	if err := s.store.Chats.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}

// SendMessage appends the user's message and the model's reply to the chat
// transcript. Nothing is persisted when the model call fails.
func (s *ChatService) SendMessage(ctx context.Context, userID, chatID uuid.UUID, req *dto.SendMessageRequest) (*dto.ChatResponse, error) {
	chat, err := s.owned(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	transcript, err := decodeTranscript(chat.Messages)
	if err != nil {
		return nil, err
	}
	transcript = append(transcript, dto.ChatMessage{
		Role:      ai.RoleUser,
		Content:   req.Message,
		CreatedAt: s.now().UTC(),
	})

	start := time.Now()
	reply, err := s.model.Complete(ctx, completionMessages(transcript), ai.CompletionOptions{
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
	})
	if s.observer != nil {
		s.observer.ObserveCompletion(time.Since(start), err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "chat completion failed", "user_id", userID, "chat_id", chatID, "error", err)
		return nil, ErrModelUnavailable
	}

	transcript = append(transcript, dto.ChatMessage{
		Role:      ai.RoleAssistant,
		Content:   reply,
		CreatedAt: s.now().UTC(),
	})

	if (chat.Title == nil || *chat.Title == "") && len(transcript) == 2 {
		title := titleFrom(req.Message)
		chat.Title = &title
	}

	encoded, err := json.Marshal(transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}
	chat.Messages = datatypes.JSON(encoded)

	if err := s.store.Chats.Save(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to save chat: %w", err)
	}
	return toChatResponse(chat)
}

func (s *ChatService) GenerateImages(ctx context.Context, userID uuid.UUID, req *dto.GenerateImageRequest) ([]ai.Image, error) {
	images, err := s.model.GenerateImages(ctx, ai.ImageRequest{
		Prompt:  req.Prompt,
		Size:    req.Size,
		N:       req.N,
		Quality: req.Quality,
		Style:   req.Style,
	})
	if err != nil {
		slog.ErrorContext(ctx, "image generation failed", "user_id", userID, "error", err)
		return nil, ErrModelUnavailable
	}
	return images, nil
}

func (s *ChatService) Transcribe(ctx context.Context, userID uuid.UUID, req ai.TranscriptionRequest) (*ai.Transcription, error) {
	out, err := s.model.Transcribe(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "transcription failed", "user_id", userID, "filename", req.Filename, "error", err)
		return nil, ErrModelUnavailable
	}
	return out, nil
}

func (s *ChatService) owned(ctx context.Context, userID, chatID uuid.UUID) (*models.AiChat, error) {
	chat, err := s.store.Chats.GetByID(ctx, chatID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	if chat.UserID != userID {
		return nil, ErrForbidden
	}
	return chat, nil
}

func completionMessages(transcript []dto.ChatMessage) []ai.Message {
	out := make([]ai.Message, 0, len(transcript)+1)
	hasSystem := false
	for _, m := range transcript {
		if m.Role == ai.RoleSystem {
			hasSystem = true
			break
		}
	}
	if !hasSystem {
		out = append(out, ai.Message{Role: ai.RoleSystem, Content: systemPrompt})
	}
	for _, m := range transcript {
		out = append(out, ai.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func titleFrom(message string) string {
	if utf8.RuneCountInString(message) <= titleMaxRunes {
		return message
	}
	return string([]rune(message)[:titleMaxRunes]) + "..."
}

func decodeTranscript(raw datatypes.JSON) ([]dto.ChatMessage, error) {
	transcript := []dto.ChatMessage{}
	if len(raw) == 0 {
		return transcript, nil
	}
	if err := json.Unmarshal(raw, &transcript); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return transcript, nil
}

func toChatResponse(chat *models.AiChat) (*dto.ChatResponse, error) {
	transcript, err := decodeTranscript(chat.Messages)
	if err != nil {
		return nil, err
	}
	return &dto.ChatResponse{
		ID:        chat.ID,
		UserID:    chat.UserID,
		Title:     chat.Title,
		Messages:  transcript,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	}, nil
}
