package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TheManishHQ/shipos-kit/internal/models"
)

type ChatRepository struct {
	db *gorm.DB
}

func (r *ChatRepository) Create(ctx context.Context, chat *models.AiChat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *ChatRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AiChat, error) {
	var chat models.AiChat
	if err := r.db.WithContext(ctx).First(&chat, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &chat, nil
}

// ListByUser returns the user's chats with the most recently active first.
func (r *ChatRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.AiChat, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.AiChat{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count chats: %w", err)
	}

	chats := make([]models.AiChat, 0)
	if err := q.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&chats).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, total, nil
}

// Save persists the title and transcript of chat in one statement.
func (r *ChatRepository) Save(ctx context.Context, chat *models.AiChat) error {
	result := r.db.WithContext(ctx).
		Model(chat).
		Select("title", "messages", "updated_at").
		Updates(chat)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ChatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AiChat{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
