package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AiChat is a persisted conversation. Messages holds the ordered transcript
// as a JSON array and is never NULL.
type AiChat struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	Title     *string        `gorm:"size:255" json:"title"`
	Messages  datatypes.JSON `gorm:"not null;default:'[]'" json:"messages"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `gorm:"index" json:"updatedAt"`
}

func (c *AiChat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if len(c.Messages) == 0 {
		c.Messages = datatypes.JSON("[]")
	}
	return nil
}
