package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/TheManishHQ/shipos-kit/internal/models"
)

type InvitationResponse struct {
	ID           uuid.UUID           `json:"id"`
	Email        string              `json:"email"`
	Role         string              `json:"role"`
	Status       string              `json:"status"`
	ExpiresAt    time.Time           `json:"expiresAt"`
	Organization models.Organization `json:"organization"`
}
