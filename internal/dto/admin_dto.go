package dto

import (
	"time"

	"github.com/TheManishHQ/shipos-kit/internal/models"
)

type ListUsersQuery struct {
	Limit  int    `query:"limit" validate:"min=1,max=100"`
	Offset int    `query:"offset" validate:"min=0"`
	Query  string `query:"query" validate:"max=255"`
}

type ListUsersResponse struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type BanUserRequest struct {
	Reason    string     `json:"reason" validate:"required,max=500"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
