package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
)

var ErrCannotDeleteSelf = errors.New("cannot delete your own account")

// AdminService implements the user management operations of the admin area.
// Callers are expected to have passed the admin role check.
type AdminService struct {
	store *repository.Store
}

func NewAdminService(store *repository.Store) *AdminService {
	return &AdminService{store: store}
}

func (s *AdminService) ListUsers(ctx context.Context, q *dto.ListUsersQuery) (*dto.ListUsersResponse, error) {
	users, total, err := s.store.Users.List(ctx, q.Query, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &dto.ListUsersResponse{Users: users, Total: total}, nil
}

func (s *AdminService) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	return s.update(ctx, userID, map[string]interface{}{"role": role})
}

func (s *AdminService) Ban(ctx context.Context, userID uuid.UUID, req *dto.BanUserRequest) error {
	return s.update(ctx, userID, map[string]interface{}{
		"banned":      true,
		"ban_reason":  req.Reason,
		"ban_expires": req.ExpiresAt,
	})
}

func (s *AdminService) Unban(ctx context.Context, userID uuid.UUID) error {
	return s.update(ctx, userID, map[string]interface{}{
		"banned":      false,
		"ban_reason":  nil,
		"ban_expires": nil,
	})
}

func (s *AdminService) DeleteUser(ctx context.Context, callerID, userID uuid.UUID) error {
	if callerID == userID {
		return ErrCannotDeleteSelf
	}
	err := s.store.Users.Delete(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *AdminService) update(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) error {
	err := s.store.Users.Update(ctx, userID, fields)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
