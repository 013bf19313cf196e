package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChatRequest struct {
	Title *string `json:"title" validate:"omitempty,max=255"`
}

type UpdateChatRequest struct {
	Title *string `json:"title" validate:"omitempty,max=255"`
}

type ListChatsQuery struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=4000"`
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatResponse struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"userId"`
	Title     *string       `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type ListChatsResponse struct {
	Chats  []ChatResponse `json:"chats"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type GenerateImageRequest struct {
	Prompt  string `json:"prompt" validate:"required,min=1,max=1000"`
	Size    string `json:"size" validate:"oneof=256x256 512x512 1024x1024 1792x1024 1024x1792"`
	N       int    `json:"n" validate:"min=1,max=4"`
	Quality string `json:"quality" validate:"oneof=standard hd"`
	Style   string `json:"style" validate:"oneof=vivid natural"`
}

type TranscribeRequest struct {
	Language       string  `form:"language" validate:"max=10"`
	Prompt         string  `form:"prompt" validate:"max=1000"`
	ResponseFormat string  `form:"responseFormat" validate:"oneof=json text srt verbose_json vtt"`
	Temperature    float32 `form:"temperature" validate:"min=0,max=1"`
}
